package catalog

import (
	"fmt"
	"time"
)

// State is the lifecycle state of a service row.
type State int

const (
	// StateActive is a live, publicly visible service.
	StateActive State = 0
	// StatePaused is a live service hidden from everyone but its owner.
	StatePaused State = 1
	// StateRetired is a dead row, kept for lineage history only.
	StateRetired State = 2
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateRetired:
		return "retired"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Live reports whether the row still counts as part of the catalog.
func (s State) Live() bool { return s == StateActive || s == StatePaused }

// MaxTitleLen is the maximum service title length.
const MaxTitleLen = 100

// Service is one catalog row (immutable value object).
//
// A logical service is a lineage of rows sharing a masterID: every edit
// retires the current row and creates a new one carrying the same masterID,
// so at most one row per lineage is live at a time.
type Service struct {
	id          int64
	masterID    int64
	owner       string
	title       string
	description string
	price       float64
	state       State
	createdAt   time.Time
}

// New validates and creates an unidentified Service (id assigned by storage).
func New(owner, title, description string, price float64, createdAt time.Time) (Service, error) {
	if owner == "" {
		return Service{}, fmt.Errorf("owner is required")
	}
	if title == "" {
		return Service{}, fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLen {
		return Service{}, fmt.Errorf("title too long (max %d)", MaxTitleLen)
	}
	if description == "" {
		return Service{}, fmt.Errorf("description is required")
	}
	if price < 0 {
		return Service{}, fmt.Errorf("price can't be negative")
	}

	return Service{
		owner:       owner,
		title:       title,
		description: description,
		price:       price,
		state:       StateActive,
		createdAt:   createdAt,
	}, nil
}

// Reconstruct creates a Service without validation (storage hydration).
func Reconstruct(
	id, masterID int64, owner, title, description string,
	price float64, state State, createdAt time.Time,
) Service {
	return Service{
		id: id, masterID: masterID, owner: owner, title: title,
		description: description, price: price, state: state, createdAt: createdAt,
	}
}

// ID returns the row identifier.
func (s *Service) ID() int64 { return s.id }

// MasterID returns the stable lineage identifier.
func (s *Service) MasterID() int64 { return s.masterID }

// Owner returns the owning user's identifier.
func (s *Service) Owner() string { return s.owner }

// Title returns the service title.
func (s *Service) Title() string { return s.title }

// Description returns the service description.
func (s *Service) Description() string { return s.description }

// Price returns the service price.
func (s *Service) Price() float64 { return s.price }

// State returns the lifecycle state.
func (s *Service) State() State { return s.state }

// CreatedAt returns the row creation time.
func (s *Service) CreatedAt() time.Time { return s.createdAt }

// Document returns the text indexed for this service.
func (s *Service) Document() string { return s.title + " " + s.description }

// DocLength is the combined title+description length used for term-frequency
// normalization.
func (s *Service) DocLength() int { return len(s.title) + len(s.description) }

// WithIdentity returns a copy with the row and lineage ids set.
func (s *Service) WithIdentity(id, masterID int64) Service {
	c := *s
	c.id = id
	c.masterID = masterID
	return c
}

// WithState returns a copy in the given state.
func (s *Service) WithState(state State) Service {
	c := *s
	c.state = state
	return c
}
