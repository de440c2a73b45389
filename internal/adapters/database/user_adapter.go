package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/repositories"
	"github.com/citylinker/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

const duplicateEmailMessage = "Cette adresse email est déjà associée à un compte. Veuillez vous connecter."

var userColumns = []interface{}{
	"id", "email", "password", "first_name", "last_name", "phone", "role",
	"business_name", "business_description", "business_address", "business_phone",
	"business_website", "business_image", "business_verified", "created_at", "updated_at",
}

// UserAdapter implements UserRepository on PostgreSQL
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	if user == nil {
		return apperrors.NewInternalError("user is nil", fmt.Errorf("user is nil"))
	}
	if user.Role == "" {
		user.Role = entities.RoleClient
	}

	record := goqu.Record{
		"email":                user.Email,
		"password":             user.Password,
		"first_name":           user.FirstName,
		"last_name":            user.LastName,
		"phone":                nullString(user.Phone),
		"role":                 string(user.Role),
		"business_name":        nullString(user.BusinessName),
		"business_description": nullString(user.BusinessDescription),
		"business_address":     nullString(user.BusinessAddress),
		"business_phone":       nullString(user.BusinessPhone),
		"business_website":     nullString(user.BusinessWebsite),
		"business_image":       nullString(user.BusinessImage),
		"business_verified":    user.BusinessVerified,
	}

	query, args, err := a.db.Insert("users").Rows(record).Returning("id", "created_at", "updated_at").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build user insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return mapWriteError("failed to create user", duplicateEmailMessage, err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return a.getOne(ctx, goqu.C("id").Eq(id))
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getOne(ctx, goqu.C("email").Eq(email))
}

func (a *UserAdapter) getOne(ctx context.Context, where exp.Expression) (*entities.User, error) {
	query, args, err := a.db.From("users").Select(userColumns...).Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user query", err)
	}

	user, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Utilisateur non trouvé")
		}
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// GetByIDs retrieves the users with the given ids
func (a *UserAdapter) GetByIDs(ctx context.Context, ids []int64) ([]*entities.User, error) {
	if len(ids) == 0 {
		return []*entities.User{}, nil
	}
	return a.list(ctx, a.db.From("users").Select(userColumns...).Where(goqu.C("id").In(ids)))
}

// List returns all users, newest first
func (a *UserAdapter) List(ctx context.Context) ([]*entities.User, error) {
	return a.list(ctx, a.db.From("users").Select(userColumns...).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()))
}

func (a *UserAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.User, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list users", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate users", err)
	}
	return users, nil
}

// Update applies the non-nil fields of update
func (a *UserAdapter) Update(ctx context.Context, id int64, update entities.UserUpdate) (*entities.User, error) {
	if update.IsEmpty() {
		return a.GetByID(ctx, id)
	}

	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	p := update.UserProfileUpdate
	if p.FirstName != nil {
		record["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		record["last_name"] = *p.LastName
	}
	optional := map[string]*string{
		"phone":                p.Phone,
		"business_name":        p.BusinessName,
		"business_description": p.BusinessDescription,
		"business_address":     p.BusinessAddress,
		"business_phone":       p.BusinessPhone,
		"business_website":     p.BusinessWebsite,
		"business_image":       p.BusinessImage,
	}
	for column, value := range optional {
		if value != nil {
			record[column] = nullString(value)
		}
	}
	if update.Role != nil {
		record["role"] = string(*update.Role)
	}
	if update.BusinessVerified != nil {
		record["business_verified"] = *update.BusinessVerified
	}

	query, args, err := a.db.Update("users").Set(record).
		Where(goqu.C("id").Eq(id)).
		Returning(userColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user update query", err)
	}

	user, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Utilisateur non trouvé")
		}
		return nil, mapWriteError("failed to update user", duplicateEmailMessage, err)
	}
	return user, nil
}

// Delete removes a user. Publications and reviews go with it through ON DELETE CASCADE.
func (a *UserAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := a.db.Delete("users").Where(goqu.C("id").Eq(id)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build user delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete user", err)
	}
	return nil
}

func scanUser(row rowScanner) (*entities.User, error) {
	var user entities.User
	var role string
	var phone, name, description, address, bizPhone, website, image sql.NullString
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName, &phone, &role,
		&name, &description, &address, &bizPhone,
		&website, &image, &user.BusinessVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = entities.Role(role)
	user.Phone = stringPtr(phone)
	user.BusinessName = stringPtr(name)
	user.BusinessDescription = stringPtr(description)
	user.BusinessAddress = stringPtr(address)
	user.BusinessPhone = stringPtr(bizPhone)
	user.BusinessWebsite = stringPtr(website)
	user.BusinessImage = stringPtr(image)
	return &user, nil
}
