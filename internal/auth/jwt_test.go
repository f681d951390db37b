package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Karavaev93/campusparking/internal/domain"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	user := &domain.User{ID: "user-1", Email: "student@campus.edu", Role: domain.RoleStaff}
	token, err := m.Issue(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := m.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "parking_staff", claims.Role)
	assert.Equal(t, "student@campus.edu", claims.Email)
}

func TestManager_ParseRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.Issue(&domain.User{ID: "user-1", Role: domain.RoleUser})
	assert.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestManager_ParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue(&domain.User{ID: "user-1", Role: domain.RoleUser})
	assert.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestManager_ParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	_, err := m.Parse("not-a-token")
	assert.Error(t, err)
}
