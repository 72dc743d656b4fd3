package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polashmiya/polash-dairy-api/models"
)

func TestCanModify(t *testing.T) {
	cases := []struct {
		name    string
		actorID uint
		role    string
		ownerID uint
		want    bool
	}{
		{"owner may modify", 1, models.RoleUser, 1, true},
		{"non-owner may not", 2, models.RoleUser, 1, false},
		{"admin may modify anything", 3, models.RoleAdmin, 1, true},
		{"admin may modify own", 1, models.RoleAdmin, 1, true},
		{"empty role is not admin", 2, "", 1, false},
		{"role is case sensitive", 2, "Admin", 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanModify(tc.actorID, tc.role, tc.ownerID))
		})
	}
}
