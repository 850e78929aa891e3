// Package model defines domain models exchanged with the membership backend,
// including Member, Event, Gallery, and the admin identity stored in the session.
package model

import "strings"

// RoleAdmin is the only role allowed into the dashboard.
const RoleAdmin = "admin"

// AdminIdentity is the identity blob returned by the backend login call and
// persisted in the session. Only the fields the dashboard relies on are typed;
// the backend may send more.
type AdminIdentity struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
}

// IsAdmin returns true if the identity carries the admin role.
func (a AdminIdentity) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// MemberName is a member's structured name.
type MemberName struct {
	First  string `json:"firstname"`
	Middle string `json:"middlename,omitempty"`
	Last   string `json:"lastname"`
}

// Full joins the non-empty name parts with spaces.
func (n MemberName) Full() string {
	s := n.First
	if n.Middle != "" {
		if s != "" {
			s += " "
		}
		s += n.Middle
	}
	if n.Last != "" {
		if s != "" {
			s += " "
		}
		s += n.Last
	}
	return s
}

// ContactPair holds a primary value with an optional alternate.
type ContactPair struct {
	Primary   string `json:"primary"`
	Alternate string `json:"alternate,omitempty"`
}

// AddressDetail is one structured address as served by the backend.
type AddressDetail struct {
	AddressLine string `json:"addressLine,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Pincode     string `json:"pincode,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Location joins the non-empty city, state and pincode parts.
func (a AddressDetail) Location() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.City, a.State, a.Pincode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// IsZero reports whether no address field is set.
func (a AddressDetail) IsZero() bool {
	return a == AddressDetail{}
}

// MemberAddress holds a member's residential and office addresses. Either may
// be absent.
type MemberAddress struct {
	Residential *AddressDetail `json:"residential,omitempty"`
	Office      *AddressDetail `json:"office,omitempty"`
}

// Member is a membership record as served by the backend. Approve is the only
// field this dashboard mutates.
type Member struct {
	ID         string        `json:"_id"`
	Name       MemberName    `json:"name"`
	Profession string        `json:"profession,omitempty"`
	Phone      ContactPair   `json:"phone"`
	Email      ContactPair   `json:"email"`
	Approve    bool          `json:"approve"`
	Address    MemberAddress `json:"address,omitempty"`
	Image      string        `json:"image,omitempty"`
}
