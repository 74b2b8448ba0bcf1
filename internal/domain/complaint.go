package domain

import "time"

// MaxAttachments caps the files a single complaint may carry.
const MaxAttachments = 5

// ComplaintCategory classifies what a complaint is about.
type ComplaintCategory string

const (
	CategoryInfrastructure ComplaintCategory = "Infrastructure"
	CategoryAcademic       ComplaintCategory = "Academic"
	CategoryHostel         ComplaintCategory = "Hostel"
	CategoryTransport      ComplaintCategory = "Transport"
	CategoryLibrary        ComplaintCategory = "Library"
	CategoryCanteen        ComplaintCategory = "Canteen"
	CategoryOther          ComplaintCategory = "Other"
)

// Categories lists every accepted category.
var Categories = []ComplaintCategory{
	CategoryInfrastructure,
	CategoryAcademic,
	CategoryHostel,
	CategoryTransport,
	CategoryLibrary,
	CategoryCanteen,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c ComplaintCategory) Valid() bool {
	for _, candidate := range Categories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ComplaintPriority enumerates urgency.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "Low"
	PriorityMedium ComplaintPriority = "Medium"
	PriorityHigh   ComplaintPriority = "High"
)

// Valid reports whether p is a known priority.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ComplaintStatus enumerates lifecycle states. Any state may move to any other.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusRejected   ComplaintStatus = "Rejected"
)

// Statuses lists every lifecycle state.
var Statuses = []ComplaintStatus{StatusPending, StatusInProgress, StatusResolved, StatusRejected}

// Valid reports whether s is a known status.
func (s ComplaintStatus) Valid() bool {
	for _, candidate := range Statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Attachment references a file held by the attachment store.
type Attachment struct {
	Filename   string    `json:"filename" bson:"filename"`
	StorageURL string    `json:"storage_url" bson:"storage_url"`
	StorageID  string    `json:"storage_id" bson:"storage_id"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// Complaint is the aggregate filed by a student.
type Complaint struct {
	ID          string
	Title       string
	Description string
	Category    ComplaintCategory
	Priority    ComplaintPriority
	Status      ComplaintStatus
	StudentID   string
	AssignedTo  *string
	Attachments []Attachment
	Feedback    *string
	ResolvedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Display references, filled on reads.
	Student  *UserRef
	Assignee *UserRef
}

// IsAssignedTo reports whether userID is the current assignee.
func (c *Complaint) IsAssignedTo(userID string) bool {
	return c.AssignedTo != nil && *c.AssignedTo == userID
}
