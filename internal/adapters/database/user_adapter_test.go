package database

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

var userColumnNames = []string{
	"id", "email", "password", "first_name", "last_name", "phone", "role",
	"business_name", "business_description", "business_address", "business_phone",
	"business_website", "business_image", "business_verified", "created_at", "updated_at",
}

func userRow(id int64, email string, role entities.Role) []driver.Value {
	return []driver.Value{
		id, email, "$2a$10$hash", "Aya", "Koné", nil, string(role),
		nil, nil, nil, nil, nil, nil, false, fixedTime, fixedTime,
	}
}

func TestUserAdapter_Create(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)

	mock.ExpectQuery(`INSERT INTO "users" .*RETURNING "id", "created_at", "updated_at"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, fixedTime, fixedTime))

	user := &entities.User{Email: "aya@example.ci", Password: "$2a$10$hash", FirstName: "Aya", LastName: "Koné"}
	require.NoError(t, adapter.Create(context.Background(), user))

	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, entities.RoleClient, user.Role)
	assert.Equal(t, fixedTime, user.CreatedAt)
}

func TestUserAdapter_Create_DuplicateEmail(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)

	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(&pq.Error{Code: "23505"})

	err := adapter.Create(context.Background(), &entities.User{Email: "aya@example.ci"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
	assert.Equal(t, duplicateEmailMessage, appErr.Message)
}

func TestUserAdapter_GetByEmail(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE \("email" = 'aya@example.ci'\)`).
		WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(userRow(3, "aya@example.ci", entities.RoleBusiness)...))

	user, err := adapter.GetByEmail(context.Background(), "aya@example.ci")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, entities.RoleBusiness, user.Role)
	assert.Nil(t, user.Phone)
	assert.Equal(t, "$2a$10$hash", user.Password)
}

func TestUserAdapter_GetByID_NotFound(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE \("id" = 42\)`).
		WillReturnRows(sqlmock.NewRows(userColumnNames))

	user, err := adapter.GetByID(context.Background(), 42)
	assert.Nil(t, user)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserAdapter_GetByIDs(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)

	users, err := adapter.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)

	mock.ExpectQuery(`WHERE \("id" IN \(1, 2\)\)`).
		WillReturnRows(sqlmock.NewRows(userColumnNames).
			AddRow(userRow(1, "a@example.ci", entities.RoleClient)...).
			AddRow(userRow(2, "b@example.ci", entities.RoleAdmin)...))

	users, err = adapter.GetByIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserAdapter_List_NewestFirst(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)

	mock.ExpectQuery(`ORDER BY "created_at" DESC, "id" DESC`).
		WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(userRow(2, "b@example.ci", entities.RoleClient)...))

	users, err := adapter.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestUserAdapter_Update(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)

	role := entities.RoleBusiness
	verified := true
	mock.ExpectQuery(`UPDATE "users" SET .*"role"\s*=\s*'business'.*WHERE \("id" = 5\) RETURNING`).
		WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(userRow(5, "c@example.ci", entities.RoleBusiness)...))

	user, err := adapter.Update(context.Background(), 5, entities.UserUpdate{Role: &role, BusinessVerified: &verified})
	require.NoError(t, err)
	assert.Equal(t, entities.RoleBusiness, user.Role)
}

func TestUserAdapter_Update_NeverWritesPassword(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherFunc(func(_, actual string) error {
		rest, ok := strings.CutPrefix(actual, `UPDATE "users" SET`)
		set, _, found := strings.Cut(rest, "WHERE")
		if !ok || !found {
			return fmt.Errorf("unexpected query %s", actual)
		}
		if strings.Contains(set, `"password"`) {
			return fmt.Errorf("password column in SET clause: %s", set)
		}
		return nil
	})))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	adapter := NewUserAdapter(postgres.NewFromDB(db))

	name := "Awa"
	role := entities.RoleAdmin
	verified := true
	mock.ExpectQuery("").
		WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(userRow(5, "c@example.ci", entities.RoleAdmin)...))

	_, err = adapter.Update(context.Background(), 5, entities.UserUpdate{
		UserProfileUpdate: entities.UserProfileUpdate{
			FirstName: &name, LastName: &name, Phone: &name, BusinessName: &name, BusinessDescription: &name,
			BusinessAddress: &name, BusinessPhone: &name, BusinessWebsite: &name, BusinessImage: &name,
		},
		Role:             &role,
		BusinessVerified: &verified,
	})
	require.NoError(t, err)
}

func TestUserAdapter_Update_EmptyReadsRow(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE \("id" = 5\)`).
		WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(userRow(5, "c@example.ci", entities.RoleClient)...))

	user, err := adapter.Update(context.Background(), 5, entities.UserUpdate{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
}

func TestUserAdapter_Delete(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)

	mock.ExpectExec(`DELETE FROM "users" WHERE \("id" = 9\)`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.Delete(context.Background(), 9))
}
