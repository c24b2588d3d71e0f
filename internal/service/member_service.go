package service

import (
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/jkarvon/muistutin/internal/storage"
)

// Validation messages are shown to the user as-is.
var (
	ErrEmptyName       = errors.New("Name cannot be empty")
	ErrDuplicateMember = errors.New("Member already exists")
)

// MemberService keeps the ordered list of household member names. Names
// are trimmed, non-empty and unique; members are never renamed. A member
// is not deleted by this service, so assignments never dangle through it.
type MemberService struct {
	mu      sync.RWMutex
	storage *storage.Storage
	members []string
}

func NewMemberService(s *storage.Storage) *MemberService {
	members, err := s.LoadMembers()
	if err != nil {
		log.Printf("Error loading members: %v", err)
		members = []string{}
	}
	return &MemberService{
		storage: s,
		members: members,
	}
}

// Add registers a new member and re-persists the list. The returned name
// is the trimmed form actually stored.
func (s *MemberService) Add(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.members {
		if m == name {
			return "", ErrDuplicateMember
		}
	}
	s.members = append(s.members, name)
	s.persistLocked()
	return name, nil
}

// List returns a copy of the member names in registration order.
func (s *MemberService) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.members...)
}

// Has reports whether name is a registered member.
func (s *MemberService) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m == name {
			return true
		}
	}
	return false
}

// ReplaceAll swaps in a new member list wholesale. Used by the demo data
// loader.
func (s *MemberService) ReplaceAll(members []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = append([]string(nil), members...)
	s.persistLocked()
}

// A failed save is logged and otherwise ignored; the in-memory state is
// already updated and must not roll back.
func (s *MemberService) persistLocked() {
	if err := s.storage.SaveMembers(s.members); err != nil {
		log.Printf("Error saving members: %v", err)
	}
}
