package model

import "time"

// Profile is the professional-profile document owned by exactly one user.
//
// The sub-document lists (Experience, Education) are ordered most-recent-first:
// new entries are prepended, matching how the profile page renders them.
// Skills is the comma-split, trimmed form of the user's input. Social holds
// only the recognized platforms, each normalized to canonical https form.
type Profile struct {
	ID             string       `json:"id"`
	UserID         string       `json:"-"`
	User           *ProfileUser `json:"user,omitempty"`
	Status         string       `json:"status"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	GithubUsername string       `json:"githubusername,omitempty"`
	Skills         []string     `json:"skills"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// ProfileUser is the slice of the owning user joined into profile reads:
// name and avatar only, mirroring populate("user", ["name", "avatar"]).
type ProfileUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Social maps the fixed set of recognized platforms to normalized URLs.
// Unset platforms are omitted from JSON rather than serialized as "".
type Social struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Xing      string `json:"xing,omitempty"`
}

// Experience is one position in the work history. ID is generated when the
// entry is added and is the only handle for removing it; entries are never
// updated in place (delete and re-add is the update path).
type Experience struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        Date   `json:"from"`
	To          *Date  `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

// Education is one entry in the education history.
type Education struct {
	ID           string `json:"id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	Location     string `json:"location,omitempty"`
	From         Date   `json:"from"`
	To           *Date  `json:"to,omitempty"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}
