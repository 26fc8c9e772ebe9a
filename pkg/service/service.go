// Package service orchestrates the API client, realtime socket, and
// terminal input/output into user-facing operations.
package service

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary
