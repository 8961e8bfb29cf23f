package mapper

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	userdomain "github.com/AlibekovAA/storefront/internal/user/domain"
)

func TestUserToDTO_OmitsSecrets(t *testing.T) {
	user := userdomain.User{
		ID:           "u-1",
		Username:     "ana",
		Email:        "ana@example.com",
		PasswordHash: "$2a$10$secret",
		Token:        "jwt-token",
		Language:     "es",
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(UserToDTO(user))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(body), "secret") || strings.Contains(string(body), "jwt-token") {
		t.Errorf("dto leaks secrets: %s", body)
	}
}

func TestUserSummariesToDTO(t *testing.T) {
	summaries := []userdomain.Summary{
		{ID: "1", Username: "a", Email: "a@example.com"},
		{ID: "2", Username: "b", Email: "b@example.com"},
	}

	out := UserSummariesToDTO(summaries)
	if len(out) != 2 || out[1].ID != "2" || out[1].Email != "b@example.com" {
		t.Errorf("unexpected mapping: %+v", out)
	}
}
