package domain

// Rule is a capability check over an actor. Rules carry no request state.
type Rule func(actor *User) bool

// AnyOf allows when at least one rule allows.
func AnyOf(rules ...Rule) Rule {
	return func(actor *User) bool {
		for _, r := range rules {
			if r(actor) {
				return true
			}
		}
		return false
	}
}

// AllOf allows when every rule allows.
func AllOf(rules ...Rule) Rule {
	return func(actor *User) bool {
		for _, r := range rules {
			if !r(actor) {
				return false
			}
		}
		return true
	}
}

// IsAdmin reports whether actor is an admin or staff member.
func IsAdmin(actor *User) bool {
	return actor != nil && (actor.Role == RoleAdmin || actor.IsStaff)
}

// IsUser returns a rule matching exactly the user with id.
func IsUser(id uint) Rule {
	return func(actor *User) bool {
		return actor != nil && id != 0 && actor.ID == id
	}
}

// PosterOrAdmin allows the job's poster or an admin.
func PosterOrAdmin(actor *User, job *Job) bool {
	if job == nil {
		return IsAdmin(actor)
	}
	return AnyOf(IsAdmin, IsUser(job.PostedByID))(actor)
}

// ApplicantPosterOrAdmin allows the applicant, the job's poster or an admin to read an application.
func ApplicantPosterOrAdmin(actor *User, app *JobApplication) bool {
	if app == nil {
		return false
	}
	return IsUser(app.UserID)(actor) || PosterOrAdmin(actor, app.Job)
}

// OwnerOrReadOnly allows reads for anyone and writes only for the owner.
func OwnerOrReadOnly(actor *User, ownerID uint, write bool) bool {
	if !write {
		return true
	}
	return IsUser(ownerID)(actor)
}
