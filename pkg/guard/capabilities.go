package guard

import "github.com/greencampus/greencampus/pkg/session"

// Feature identifies a role-gated surface of the application. Gates control
// visibility and client-side access only; the backend re-checks every action.
type Feature string

const (
	// FeatureFoodManage covers posting surplus food and editing or deleting
	// one's own posts.
	FeatureFoodManage Feature = "food:manage"
	// FeatureFoodClaim covers claiming an available surplus food post.
	FeatureFoodClaim Feature = "food:claim"
	// FeatureEwastePost covers listing an e-waste item for collection.
	FeatureEwastePost Feature = "ewaste:post"
	// FeatureEwasteClaim covers claiming a listed e-waste item; open to every
	// authenticated role, the backend rejects claiming one's own listing.
	FeatureEwasteClaim Feature = "ewaste:claim"
	// FeatureEventManage covers creating volunteer events and marking
	// registrations complete.
	FeatureEventManage Feature = "events:manage"
	// FeatureEventRegister covers registering oneself for an event.
	FeatureEventRegister Feature = "events:register"
	// FeatureDonate covers posting and claiming donations; open to every
	// authenticated role.
	FeatureDonate Feature = "donations:all"
)

// featureRoles is the single source of truth for which roles see which
// features. Admin appears everywhere by construction, see Allows.
var featureRoles = map[Feature][]session.Role{
	FeatureFoodManage:    {session.RoleMessStaff},
	FeatureFoodClaim:     {session.RoleNGO},
	FeatureEwastePost:    {session.RoleStudent},
	FeatureEwasteClaim:   {session.RoleStudent, session.RoleNGO, session.RoleMessStaff},
	FeatureEventManage:   {session.RoleNGO},
	FeatureEventRegister: {session.RoleStudent},
	FeatureDonate:        {session.RoleStudent, session.RoleNGO, session.RoleMessStaff},
}

// Allows reports whether role may see feature. Admin passes every gate.
// Unknown features are closed, not open.
func Allows(role session.Role, feature Feature) bool {
	if role == session.RoleAdmin {
		return true
	}
	roles, ok := featureRoles[feature]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedFeatures returns every feature visible to role, for building
// navigation in one pass.
func AllowedFeatures(role session.Role) []Feature {
	all := []Feature{
		FeatureFoodManage,
		FeatureFoodClaim,
		FeatureEwastePost,
		FeatureEwasteClaim,
		FeatureEventManage,
		FeatureEventRegister,
		FeatureDonate,
	}
	out := make([]Feature, 0, len(all))
	for _, f := range all {
		if Allows(role, f) {
			out = append(out, f)
		}
	}
	return out
}
