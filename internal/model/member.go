package model

// Member is a person record as stored in the members table.
type Member struct {
	MemberID  string `json:"member_id"`
	URI       string `json:"uri"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio,omitempty"`
	Title     string `json:"title,omitempty"`
}

// Experience is one employment entry attached to a member.
type Experience struct {
	MemberID        string  `json:"member_id"`
	Company         string  `json:"company"`
	Role            string  `json:"role,omitempty"`
	Industry        string  `json:"industry,omitempty"`
	City            *string `json:"city,omitempty"`
	State           *string `json:"state,omitempty"`
	Country         *string `json:"country,omitempty"`
	FromDate        *string `json:"from_date,omitempty"`
	ToDate          *string `json:"to_date,omitempty"`
	IsCurrent       bool    `json:"is_current"`
	Description     string  `json:"description,omitempty"`
	CompanySize     string  `json:"company_size,omitempty"`
	CompanyWebsite  string  `json:"company_website,omitempty"`
	CompanyLinkedIn string  `json:"company_linkedin,omitempty"`
}

// Education is one education entry attached to a member.
type Education struct {
	MemberID  string  `json:"member_id"`
	Degree    string  `json:"degree,omitempty"`
	Institute string  `json:"institute"`
	Course    string  `json:"course,omitempty"`
	FromDate  *string `json:"from_date,omitempty"`
	ToDate    *string `json:"to_date,omitempty"`
}
