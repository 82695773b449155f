package domain

import "testing"

func TestTenderStatusValid(t *testing.T) {
	for _, s := range []TenderStatus{StatusOpen, StatusClosed, StatusAwarded} {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	for _, s := range []TenderStatus{"", "published", "OPEN "} {
		if s.Valid() {
			t.Errorf("status %q should be invalid", s)
		}
	}
}
