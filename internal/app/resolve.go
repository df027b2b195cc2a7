package app

import (
	"fmt"
	"os"
)

// Resolver looks up spec links and access tokens.
// Order for links: flag, environment, prompt.
// Order for tokens: flag, environment, keychain, prompt.
type Resolver struct {
	Runtime  RuntimeContext
	Prompt   bool // value of --prompt
	Prompter Prompter
	Tokens   TokenStore // optional
	Logger   Logger

	// SaveToken stores a token resolved from the flag, the environment or a
	// prompt in Tokens. Tokens read from Tokens are not written back.
	SaveToken bool

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

func (r *Resolver) getenv(name string) string {
	if r.Getenv != nil {
		return r.Getenv(name)
	}
	return os.Getenv(name)
}

func (r *Resolver) logger() Logger {
	if r.Logger == nil {
		return NopLogger{}
	}
	return r.Logger
}

// ResolveLink returns the spec location. flagValue is "" when --link was not given.
func (r *Resolver) ResolveLink(flagValue, envName string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := r.getenv(envName); v != "" {
		return v, nil
	}
	if !r.Runtime.CanPrompt(r.Prompt) || r.Prompter == nil {
		return "", SourceUnavailable("No link provided. Skipping.")
	}
	link, err := r.Prompter.Ask(fmt.Sprintf("Please enter the link to the OpenAPI spec (%s):", envName))
	if err != nil {
		return "", err
	}
	if link == "" {
		return "", SourceUnavailable("No link provided. Skipping.")
	}
	return link, nil
}

// ResolveToken returns an access token for host. flagValue is "" when
// --token was not given.
func (r *Resolver) ResolveToken(flagValue, envName, host string) (string, error) {
	token, fromStore, err := r.lookupToken(flagValue, envName, host)
	if err != nil {
		return "", err
	}
	if r.SaveToken && !fromStore && r.Tokens != nil && host != "" {
		if err := r.Tokens.Set(host, token); err != nil {
			r.logger().Warnf("could not save token: %v", err)
		} else {
			r.logger().Infof("Saved token for %s", host)
		}
	}
	return token, nil
}

func (r *Resolver) lookupToken(flagValue, envName, host string) (token string, fromStore bool, err error) {
	if flagValue != "" {
		return flagValue, false, nil
	}
	if v := r.getenv(envName); v != "" {
		return v, false, nil
	}
	if r.Tokens != nil && host != "" {
		stored, err := r.Tokens.Get(host)
		if err != nil {
			r.logger().Warnf("keychain unavailable: %v", err)
		} else if stored != "" {
			return stored, true, nil
		}
	}
	if !r.Runtime.CanPrompt(r.Prompt) || r.Prompter == nil {
		return "", false, SourceUnavailable("No token provided. Skipping.")
	}
	token, err = r.Prompter.AskSecret(fmt.Sprintf(
		"A token is required. Please enter your Personal Access Token for GitLab or GitHub (%s):", envName))
	if err != nil {
		return "", false, err
	}
	if token == "" {
		return "", false, SourceUnavailable("No token provided. Skipping.")
	}
	return token, false, nil
}
