package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_BeforeSave_HashesPassword(t *testing.T) {
	// Arrange
	user := &User{
		Name:     "Тест",
		Email:    "test@example.com",
		Password: "plain-password",
	}

	// Act
	require.NoError(t, user.BeforeSave(nil))

	// Assert
	assert.NotEqual(t, "plain-password", user.Password, "Пароль должен быть захеширован")
	assert.True(t, strings.HasPrefix(user.Password, "$2a$"), "Хеш должен быть bcrypt")
	assert.True(t, user.CheckPassword("plain-password"), "Исходный пароль должен проходить проверку")
	assert.False(t, user.CheckPassword("wrong-password"))
}

func TestUser_BeforeSave_DoesNotRehash(t *testing.T) {
	// Уже захешированный пароль не хешируется повторно
	user := &User{Email: "test@example.com", Password: "secret123"}
	require.NoError(t, user.BeforeSave(nil))
	hashed := user.Password

	require.NoError(t, user.BeforeSave(nil))

	assert.Equal(t, hashed, user.Password, "Повторный BeforeSave не должен менять bcrypt-хеш")
}

func TestUser_IsAdmin(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	student := &User{Role: RoleUser}

	assert.True(t, admin.IsAdmin())
	assert.False(t, student.IsAdmin())
}

func TestResult_Percentage(t *testing.T) {
	result := &Result{Score: 7.5, TotalMarks: 10}
	assert.InDelta(t, 75.0, result.Percentage(), 1e-9)

	empty := &Result{}
	assert.Equal(t, 0.0, empty.Percentage(), "Ноль вопросов не приводит к делению на ноль")
}
