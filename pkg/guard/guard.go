// Package guard gates view rendering on session state and centralizes
// role-based feature visibility for the GreenCampus client surface.
package guard

import "github.com/greencampus/greencampus/pkg/session"

// Decision is the outcome of a route-guard evaluation for a protected view.
type Decision int

const (
	// DecisionLoading renders a placeholder while the session is still resolving.
	DecisionLoading Decision = iota
	// DecisionRedirectToLogin bounces the navigation to the login view. The
	// redirect replaces history so the user cannot navigate back into the
	// bounced attempt.
	DecisionRedirectToLogin
	// DecisionRender renders the requested view.
	DecisionRender
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRedirectToLogin:
		return "redirect_to_login"
	case DecisionRender:
		return "render"
	}
	return "unknown"
}

// EntryDecision is the outcome for the login/register views themselves.
type EntryDecision int

const (
	// EntryLoading renders a placeholder while the session is still resolving.
	EntryLoading EntryDecision = iota
	// EntryRedirectHome bounces an already-authenticated session away from
	// the credential forms to the default landing view.
	EntryRedirectHome
	// EntryRender renders the credential form.
	EntryRender
)

// Default client route targets for redirects.
const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

// Decide evaluates a protected view against the current session status.
// Unresolved and resolving sessions get a loading placeholder rather than
// defaulting to anonymous, so a slow hydration never bounces a valid session
// to the login view.
func Decide(status session.Status) Decision {
	switch status {
	case session.StatusAuthenticated:
		return DecisionRender
	case session.StatusAnonymous:
		return DecisionRedirectToLogin
	default:
		return DecisionLoading
	}
}

// DecideCredentialEntry applies the inverse rule for the login and register
// views: an authenticated session can never see the credential-entry forms.
func DecideCredentialEntry(status session.Status) EntryDecision {
	switch status {
	case session.StatusAuthenticated:
		return EntryRedirectHome
	case session.StatusAnonymous:
		return EntryRender
	default:
		return EntryLoading
	}
}
