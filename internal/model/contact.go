package model

type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "New"
	ContactStatusRead     ContactStatus = "Read"
	ContactStatusReplied  ContactStatus = "Replied"
	ContactStatusArchived ContactStatus = "Archived"
)

// Contact is a public message from the website contact form. IsRead is
// tracked independently of Status.
type Contact struct {
	Base
	Name        string        `json:"name" db:"name"`
	Email       string        `json:"email" db:"email"`
	PhoneNumber string        `json:"phoneNumber,omitempty" db:"phone_number"`
	Subject     string        `json:"subject,omitempty" db:"subject"`
	Message     string        `json:"message" db:"message"`
	Status      ContactStatus `json:"status" db:"status"`
	IsRead      bool          `json:"isRead" db:"is_read"`
}

type CreateContactRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Subject     string `json:"subject"`
	Message     string `json:"message" binding:"required"`
}

type UpdateContactRequest struct {
	Status *string `json:"status" binding:"omitempty,oneof=New Read Replied Archived"`
	IsRead *bool   `json:"isRead"`
}

type ContactFilter struct {
	Status ContactStatus
	IsRead *bool
	Limit  int
	Offset int
}
