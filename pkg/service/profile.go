package service

import (
	"context"
	"fmt"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/formatter"
	"github.com/banter-app/banter-cli/pkg/output"
	"github.com/banter-app/banter-cli/pkg/prompter"
	"github.com/banter-app/banter-cli/pkg/session"
)

// ProfileService provides profile operations
type ProfileService struct {
	api *api.Client
}

// NewProfileService creates a new profile service
func NewProfileService(c *api.Client) *ProfileService {
	return &ProfileService{api: c}
}

// View displays a user's profile. An empty userID shows the viewer's own.
func (s *ProfileService) View(ctx context.Context, userID string) error {
	if userID == "" {
		sess, err := RequireSession()
		if err != nil {
			return err
		}
		userID = sess.UserID
	}

	user, err := s.api.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	return output.PrintRecord("Profile", formatter.UserRecord(*user))
}

// Edit updates the given profile fields and refreshes the cached session
// identity when the edit touches it.
func (s *ProfileService) Edit(ctx context.Context, req api.EditProfileRequest) error {
	user, err := s.api.EditProfile(ctx, req)
	if err != nil {
		return err
	}

	if sess, _ := session.Load(); sess != nil {
		changed := false
		if user.Username != "" && user.Username != sess.Username {
			sess.Username = user.Username
			changed = true
		}
		if user.AvatarURL != "" && user.AvatarURL != sess.AvatarURL {
			sess.AvatarURL = user.AvatarURL
			changed = true
		}
		if changed {
			if err := session.Save(sess); err != nil {
				return err
			}
		}
	}

	formatter.PrintSuccess("✓ Profile updated")
	return nil
}

// EditInteractive prompts for each editable field; empty answers keep the
// current value.
func (s *ProfileService) EditInteractive(ctx context.Context) error {
	sess, err := RequireSession()
	if err != nil {
		return err
	}

	current, err := s.api.GetProfile(ctx, sess.UserID)
	if err != nil {
		return err
	}

	name, err := prompter.PromptString(fmt.Sprintf("Name [%s]: ", current.Name))
	if err != nil {
		return err
	}
	username, err := prompter.PromptString(fmt.Sprintf("Username [%s]: ", current.Username))
	if err != nil {
		return err
	}
	bio, err := prompter.PromptString(fmt.Sprintf("Bio [%s]: ", current.Bio))
	if err != nil {
		return err
	}

	req := api.EditProfileRequest{Name: name, Username: username, Bio: bio}
	if req == (api.EditProfileRequest{}) {
		formatter.PrintInfo("Nothing to change")
		return nil
	}
	return s.Edit(ctx, req)
}

// ChooseAvatar lists the preset avatars and applies the selected one
func (s *ProfileService) ChooseAvatar(ctx context.Context) error {
	avatars, err := s.api.GetAvatars(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch avatars: %w", err)
	}

	if len(avatars) == 0 {
		fmt.Println("No avatars available.")
		return nil
	}

	options := make([]string, 0, len(avatars))
	for _, a := range avatars {
		options = append(options, a.URL)
	}

	idx, err := prompter.PromptSelect("Choose an avatar:", options)
	if err != nil {
		return err
	}

	return s.Edit(ctx, api.EditProfileRequest{AvatarURL: avatars[idx].URL})
}
