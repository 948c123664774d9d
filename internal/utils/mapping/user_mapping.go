package mapping

import (
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/SscSPs/expense_split_app/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:          d.UserID,
		Name:            d.Name,
		Email:           d.Email,
		Nickname:        toNullString(d.Nickname),
		ImageURL:        toNullString(d.ImageURL),
		AuthProvider:    string(d.AuthProvider),
		ProviderUserID:  toNullString(d.ProviderUserID),
		EmailVerifiedAt: d.EmailVerified,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		Name:           m.Name,
		Email:          m.Email,
		Nickname:       m.Nickname.String,
		ImageURL:       m.ImageURL.String,
		AuthProvider:   domain.AuthProvider(m.AuthProvider),
		ProviderUserID: m.ProviderUserID.String,
		EmailVerified:  m.EmailVerifiedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
