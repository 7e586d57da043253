package auth

import (
	"context"
	"os"
)

// envVars maps environment variable names to the cookie each one carries.
var envVars = map[string]string{
	"WIKITREE_WTB_USERID": "wikitree_wtb_UserID",
	"WIKITREE_WTB_TOKEN":  "wikitree_wtb_Token",
}

// EnvSource reads session cookies from environment variables.
type EnvSource struct{}

// Cookies returns session cookies from environment variables.
func (EnvSource) Cookies(_ context.Context) (map[string]string, error) {
	cookies := make(map[string]string)
	for envVar, cookieName := range envVars {
		if value := os.Getenv(envVar); value != "" {
			cookies[cookieName] = value
		}
	}

	if len(cookies) == 0 {
		return nil, nil //nolint:nilnil // no env vars set is not an error
	}
	return cookies, nil
}

// EnvVarNames returns the recognized environment variable names, for help
// messages.
func EnvVarNames() []string {
	vars := make([]string, 0, len(envVars))
	for envVar := range envVars {
		vars = append(vars, envVar)
	}
	return vars
}
