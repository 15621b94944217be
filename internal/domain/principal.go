package domain

// SubjectType differentiates end-user vs artist principals.
type SubjectType string

const (
	SubjectTypeUser   SubjectType = "USER"
	SubjectTypeArtist SubjectType = "ARTIST"
)

// Valid reports whether the subject type is one of the known variants.
func (s SubjectType) Valid() bool {
	return s == SubjectTypeUser || s == SubjectTypeArtist
}

// Principal is a tagged union over the two authenticatable account variants.
// Exactly one of User/Artist is non-nil, matching Type.
type Principal struct {
	Type   SubjectType
	User   *User
	Artist *Artist
}

// UserPrincipal wraps an end-user account.
func UserPrincipal(u *User) *Principal {
	return &Principal{Type: SubjectTypeUser, User: u}
}

// ArtistPrincipal wraps an artist account.
func ArtistPrincipal(a *Artist) *Principal {
	return &Principal{Type: SubjectTypeArtist, Artist: a}
}

// ID returns the account identifier of the active variant.
func (p *Principal) ID() string {
	if p.Type == SubjectTypeArtist && p.Artist != nil {
		return p.Artist.ID
	}
	if p.User != nil {
		return p.User.ID
	}
	return ""
}

// Email returns the account email of the active variant.
func (p *Principal) Email() string {
	if p.Type == SubjectTypeArtist && p.Artist != nil {
		return p.Artist.Email
	}
	if p.User != nil {
		return p.User.Email
	}
	return ""
}

// Name returns the display name, or "Unknown" when unset.
func (p *Principal) Name() string {
	name := ""
	if p.Type == SubjectTypeArtist && p.Artist != nil {
		name = p.Artist.Name
	} else if p.User != nil {
		name = p.User.Name
	}
	if name == "" {
		return "Unknown"
	}
	return name
}

// PasswordHash returns the stored credential hash of the active variant.
func (p *Principal) PasswordHash() string {
	if p.Type == SubjectTypeArtist && p.Artist != nil {
		return p.Artist.PasswordHash
	}
	if p.User != nil {
		return p.User.PasswordHash
	}
	return ""
}

// Roles returns the principal's role set. A missing role falls back to the
// subject type itself, so every token always carries at least one role.
func (p *Principal) Roles() []string {
	role := ""
	if p.Type == SubjectTypeArtist && p.Artist != nil {
		role = p.Artist.Role
	} else if p.User != nil {
		role = p.User.Role
	}
	if role == "" {
		role = string(p.Type)
	}
	return []string{role}
}

// PrincipalInfo is the sanitized account summary returned after sign-in.
// It never carries the password hash.
type PrincipalInfo struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Type  SubjectType `json:"type"`
}

// Info builds the sanitized summary for the active variant.
func (p *Principal) Info() PrincipalInfo {
	return PrincipalInfo{
		ID:    p.ID(),
		Name:  p.Name(),
		Email: p.Email(),
		Type:  p.Type,
	}
}
