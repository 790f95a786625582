package user

import (
	"context"
	"testing"

	"github.com/example/multimart/internal/auth"
	"github.com/example/multimart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail      map[string]*User
	byID         map[int64]*User
	inserted     *User
	passwordHash string
	listFilter   ListFilter
	profileName  string
	role         string
	status       string
	deleted      []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*User{}, byID: map[int64]*User{}}
}

func (r *fakeUserRepo) add(u *User) {
	r.byEmail[u.Email] = u
	r.byID[u.ID] = u
}

func (r *fakeUserRepo) Insert(ctx context.Context, u *User) (int64, error) {
	r.inserted = u
	return 1, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter ListFilter) ([]User, int, error) {
	r.listFilter = filter
	users := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, *u)
	}
	return users, len(users), nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.passwordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id int64, fullName, phone, address string) error {
	r.profileName = fullName
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id int64, role string) error {
	r.role = role
	return nil
}

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	r.status = status
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

type fakePublisher struct {
	events []string
}

func (p *fakePublisher) Publish(ctx context.Context, key, eventType string, payload any) error {
	p.events = append(p.events, eventType)
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:    "Jane@Example.com",
		Password: "correct-horse",
		FullName: "Jane Doe",
	}
}

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	events := &fakePublisher{}
	svc := NewService(repo, events)

	u, err := svc.Register(context.Background(), validRegisterInput())

	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, StatusActive, u.Status)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)
	assert.Equal(t, []string{EventUserRegistered}, events.events)
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil)

	in := validRegisterInput()
	in.Email = "not-an-email"
	_, err := svc.Register(context.Background(), in)

	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestRegister_MissingName(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil)

	in := validRegisterInput()
	in.FullName = ""
	_, err := svc.Register(context.Background(), in)

	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 5, Email: "jane@example.com"})
	svc := NewService(repo, nil)

	_, err := svc.Register(context.Background(), validRegisterInput())

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil)

	in := validRegisterInput()
	in.Password = "short"
	_, err := svc.Register(context.Background(), in)

	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestAuthenticate_Success(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{
		ID: 5, Email: "jane@example.com", Status: StatusActive,
		PasswordHash: mustHash(t, "correct-horse"),
	})
	svc := NewService(repo, nil)

	u, err := svc.Authenticate(context.Background(), " Jane@Example.com ", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{
		ID: 5, Email: "jane@example.com", Status: StatusActive,
		PasswordHash: mustHash(t, "correct-horse"),
	})
	svc := NewService(repo, nil)

	_, err := svc.Authenticate(context.Background(), "jane@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil)

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_SuspendedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{
		ID: 5, Email: "jane@example.com", Status: StatusSuspended,
		PasswordHash: mustHash(t, "correct-horse"),
	})
	svc := NewService(repo, nil)

	_, err := svc.Authenticate(context.Background(), "jane@example.com", "correct-horse")

	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 5, PasswordHash: mustHash(t, "correct-horse")})
	svc := NewService(repo, nil)

	err := svc.ChangePassword(context.Background(), 5, "wrong", "new-password")

	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Empty(t, repo.passwordHash)
}

func TestChangePassword_Success(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 5, PasswordHash: mustHash(t, "correct-horse")})
	svc := NewService(repo, nil)

	err := svc.ChangePassword(context.Background(), 5, "correct-horse", "new-password")

	require.NoError(t, err)
	assert.NotEmpty(t, repo.passwordHash)
	assert.True(t, auth.CheckPassword("new-password", repo.passwordHash))
}

var userAdmin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func TestUpdateProfile_RequiresName(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 5})
	svc := NewService(repo, nil)

	err := svc.UpdateProfile(context.Background(), 5, ProfileInput{FullName: ""})

	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Empty(t, repo.profileName)
}

func TestUpdateProfile_Success(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 5})
	svc := NewService(repo, nil)

	err := svc.UpdateProfile(context.Background(), 5, ProfileInput{
		FullName: "Jane Q. Doe", Phone: "555-0100", Address: "1 Main St",
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", repo.profileName)
}

func TestList_AdminOnly(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil)

	_, _, err := svc.List(context.Background(), domain.Actor{UserID: 7, Role: domain.RoleUser}, ListFilter{})

	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestList_PassesFilter(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, nil)

	_, _, err := svc.List(context.Background(), userAdmin, ListFilter{
		Search: "jane", Role: domain.RoleVendor, Page: domain.NewPage(2, 20),
	})

	require.NoError(t, err)
	assert.Equal(t, "jane", repo.listFilter.Search)
	assert.Equal(t, domain.RoleVendor, repo.listFilter.Role)
	assert.Equal(t, 2, repo.listFilter.Page.Number)
}

func TestSetRole_PromotesVendor(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 5, Role: domain.RoleUser})
	svc := NewService(repo, nil)

	err := svc.SetRole(context.Background(), userAdmin, 5, domain.RoleVendor)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleVendor, repo.role)
}

func TestSetRole_AdminOnly(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 5})
	svc := NewService(repo, nil)

	err := svc.SetRole(context.Background(), domain.Actor{UserID: 5, Role: domain.RoleUser}, 5, domain.RoleVendor)

	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	assert.Empty(t, repo.role)
}

func TestSetRole_InvalidRole(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 5})
	svc := NewService(repo, nil)

	err := svc.SetRole(context.Background(), userAdmin, 5, "superuser")

	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 5})
	svc := NewService(repo, nil)

	err := svc.SetStatus(context.Background(), userAdmin, 5, "banned")

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStatus_Suspends(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 5, Status: StatusActive})
	svc := NewService(repo, nil)

	err := svc.SetStatus(context.Background(), userAdmin, 5, StatusSuspended)

	require.NoError(t, err)
	assert.Equal(t, StatusSuspended, repo.status)
}

func TestDelete_RefusesAdminAccounts(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 2, Role: domain.RoleAdmin})
	svc := NewService(repo, nil)

	err := svc.Delete(context.Background(), userAdmin, 2)

	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	assert.Empty(t, repo.deleted)
}

func TestDelete_Success(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&User{ID: 5, Role: domain.RoleUser})
	svc := NewService(repo, nil)

	err := svc.Delete(context.Background(), userAdmin, 5)

	require.NoError(t, err)
	assert.Equal(t, []int64{5}, repo.deleted)
}

func TestDelete_UnknownUser(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil)

	err := svc.Delete(context.Background(), userAdmin, 99)

	assert.ErrorIs(t, err, ErrUserNotFound)
}
