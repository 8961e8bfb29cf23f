package mapper

import (
	"github.com/AlibekovAA/storefront/internal/common/dto"
	userdomain "github.com/AlibekovAA/storefront/internal/user/domain"
)

// UserToDTO drops the password hash and token; the token is returned to the
// caller separately.
func UserToDTO(user userdomain.User) dto.User {
	return dto.User{
		ID:        string(user.ID),
		Username:  user.Username,
		Email:     user.Email,
		Language:  user.Language,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func UserSummaryToDTO(summary userdomain.Summary) dto.UserSummary {
	return dto.UserSummary{
		ID:        string(summary.ID),
		Username:  summary.Username,
		Email:     summary.Email,
		Language:  summary.Language,
		CreatedAt: summary.CreatedAt,
	}
}

func UserSummariesToDTO(summaries []userdomain.Summary) []dto.UserSummary {
	result := make([]dto.UserSummary, len(summaries))
	for i, s := range summaries {
		result[i] = UserSummaryToDTO(s)
	}
	return result
}
