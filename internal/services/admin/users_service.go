package admin

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/audit"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/security/password"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/validation"
)

const componentUsers = "admin.users"

// UserService administra usuarios y sus asignaciones de roles.
type UserService interface {
	List(ctx context.Context, f repository.ListUsersFilter) (*Page[repository.SafeUser], error)
	Get(ctx context.Context, id string) (*repository.SafeUser, error)
	Create(ctx context.Context, actorID string, in CreateUserRequest) (*repository.SafeUser, error)
	Update(ctx context.Context, actorID, id string, in UpdateUserRequest) (*repository.SafeUser, error)

	// SetPassword fija un password nuevo y revoca los refresh tokens vigentes.
	SetPassword(ctx context.Context, id, plain string) error

	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int, error)
}

type userService struct{ deps Deps }

// NewUserService crea el service de usuarios.
func NewUserService(deps Deps) UserService {
	return &userService{deps: deps}
}

func (s *userService) List(ctx context.Context, f repository.ListUsersFilter) (*Page[repository.SafeUser], error) {
	log := serviceLogger(ctx, componentUsers, "List")

	f.Search = strings.TrimSpace(f.Search)
	f.Page = f.Page.Normalize(types.DefaultPageLimit)
	users, total, err := s.deps.Store.Users().List(ctx, f)
	if err != nil {
		return nil, internal(log, "list users failed", err)
	}

	items := make([]repository.SafeUser, 0, len(users))
	for i := range users {
		refs, err := roleRefs(ctx, s.deps.Store, users[i].ID)
		if err != nil && !repository.IsNotFound(err) {
			return nil, internal(log, "load user roles failed", err)
		}
		items = append(items, users[i].Safe(refs))
	}
	return &Page[repository.SafeUser]{Items: items, Meta: types.NewPageMeta(f.Page, total)}, nil
}

func (s *userService) Get(ctx context.Context, id string) (*repository.SafeUser, error) {
	log := serviceLogger(ctx, componentUsers, "Get").With(logger.UserID(id))

	u, err := s.deps.Store.Users().GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("user")
		}
		return nil, internal(log, "get user failed", err)
	}
	return s.view(ctx, log, u)
}

func (s *userService) view(ctx context.Context, log *zap.Logger, u *repository.User) (*repository.SafeUser, error) {
	refs, err := roleRefs(ctx, s.deps.Store, u.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("user")
		}
		return nil, internal(log, "load user roles failed", err)
	}
	safe := u.Safe(refs)
	return &safe, nil
}

func (s *userService) Create(ctx context.Context, actorID string, in CreateUserRequest) (*repository.SafeUser, error) {
	log := serviceLogger(ctx, componentUsers, "Create")

	// Paso 0: Normalización y validación
	in.Email = validation.NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if !validation.ValidEmail(in.Email) {
		return nil, errs.Invalid("a valid email is required")
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, errs.Invalid("first and last name are required")
	}
	if !validation.ValidPersonName(in.FirstName) || !validation.ValidPersonName(in.LastName) {
		return nil, errs.Invalid("names must be at most %d characters", validation.MaxNameLength)
	}
	status := types.UserStatusActive
	if in.Status != "" {
		st, ok := types.ParseUserStatus(in.Status)
		if !ok {
			return nil, errs.Invalid("unknown status %q", in.Status)
		}
		status = st
	}
	if ok, reasons := s.deps.Policy.Validate(in.Password); !ok {
		return nil, errs.New(errs.KindInvalidInput, password.Describe(reasons))
	}
	roleIDs := cleanIDs(in.RoleIDs)
	if err := s.checkRoles(ctx, roleIDs); err != nil {
		return nil, err
	}

	// Paso 1: Crear usuario
	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, internal(log, "password hash failed", err)
	}
	u, err := s.deps.Store.Users().Create(ctx, repository.CreateUserInput{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Status:       status,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, errs.ErrDuplicateEmail
		}
		return nil, internal(log, "create user failed", err)
	}
	log = log.With(logger.UserID(u.ID))

	// Paso 2: Roles iniciales
	if len(roleIDs) > 0 {
		if err := s.deps.Store.RBAC().SetUserRoles(ctx, u.ID, roleIDs, actorID); err != nil {
			// compensar: no dejar un usuario sin los roles pedidos
			if derr := s.deps.Store.Users().Delete(ctx, u.ID); derr != nil {
				log.Error("rollback of created user failed", logger.Err(derr))
			}
			if repository.IsNotFound(err) {
				return nil, errs.Invalid("unknown role id")
			}
			return nil, internal(log, "assign roles failed", err)
		}
	}

	log.Info("user created", logger.Count(len(roleIDs)))
	audit.Log(ctx, audit.UserCreated, u.ID, logger.Count(len(roleIDs)))
	return s.view(ctx, log, u)
}

func (s *userService) checkRoles(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.deps.Store.Roles().GetByID(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return errs.Invalid("unknown role id %q", id)
			}
			return errs.Wrap(errs.KindInternal, "load role", err)
		}
	}
	return nil
}

func (s *userService) Update(ctx context.Context, actorID, id string, in UpdateUserRequest) (*repository.SafeUser, error) {
	log := serviceLogger(ctx, componentUsers, "Update").With(logger.UserID(id))

	// Paso 0: Validación
	var upd repository.UpdateUserInput
	if in.Email != nil {
		e := validation.NormalizeEmail(*in.Email)
		if !validation.ValidEmail(e) {
			return nil, errs.Invalid("a valid email is required")
		}
		upd.Email = &e
	}
	var err error
	if upd.FirstName, err = cleanName(in.FirstName); err != nil {
		return nil, err
	}
	if upd.LastName, err = cleanName(in.LastName); err != nil {
		return nil, err
	}
	if in.Status != nil {
		st, ok := types.ParseUserStatus(*in.Status)
		if !ok {
			return nil, errs.Invalid("unknown status %q", *in.Status)
		}
		upd.Status = &st
	}
	// roles se validan antes de persistir cualquier campo
	roleIDs := cleanIDs(in.RoleIDs)
	if err := s.checkRoles(ctx, roleIDs); err != nil {
		return nil, err
	}

	before, err := s.deps.Store.Users().GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("user")
		}
		return nil, internal(log, "get user failed", err)
	}

	// Paso 1: Campos
	u, err := s.deps.Store.Users().Update(ctx, id, upd)
	if err != nil {
		switch {
		case repository.IsConflict(err):
			return nil, errs.ErrDuplicateEmail
		case repository.IsNotFound(err):
			return nil, notFound("user")
		}
		return nil, internal(log, "update user failed", err)
	}
	invalidate := upd.Status != nil && *upd.Status != before.Status

	// Paso 2: Reemplazo del set de roles
	if in.RoleIDs != nil {
		if err := s.deps.Store.RBAC().SetUserRoles(ctx, id, roleIDs, actorID); err != nil {
			if repository.IsNotFound(err) {
				return nil, errs.Invalid("unknown role id")
			}
			return nil, internal(log, "set user roles failed", err)
		}
		invalidate = true
	}

	// Paso 3: Invalidación antes de responder
	if invalidate {
		invalidateUser(ctx, s.deps.Cache, log, id)
	}
	log.Info("user updated", logger.Bool("permissions_changed", invalidate))
	audit.Log(ctx, audit.UserUpdated, id, logger.Bool("roles_changed", invalidate))
	return s.view(ctx, log, u)
}

func (s *userService) SetPassword(ctx context.Context, id, plain string) error {
	log := serviceLogger(ctx, componentUsers, "SetPassword").With(logger.UserID(id))

	if ok, reasons := s.deps.Policy.Validate(plain); !ok {
		return errs.New(errs.KindInvalidInput, password.Describe(reasons))
	}
	hash, err := s.deps.Hasher.Hash(plain)
	if err != nil {
		return internal(log, "password hash failed", err)
	}
	v, err := s.deps.Store.Users().SetPassword(ctx, id, hash)
	if err != nil {
		if repository.IsNotFound(err) {
			return notFound("user")
		}
		return internal(log, "set password failed", err)
	}
	invalidateUser(ctx, s.deps.Cache, log, id)
	log.Info("password changed by admin", logger.Int64("token_version", v))
	audit.Log(ctx, audit.UserPasswordChanged, id)
	return nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	log := serviceLogger(ctx, componentUsers, "Delete").With(logger.UserID(id))

	if err := s.deps.Store.Users().Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return notFound("user")
		}
		return internal(log, "delete user failed", err)
	}
	invalidateUser(ctx, s.deps.Cache, log, id)
	log.Info("user deleted")
	audit.Log(ctx, audit.UserDeleted, id)
	return nil
}

func (s *userService) BulkDelete(ctx context.Context, ids []string) (int, error) {
	log := serviceLogger(ctx, componentUsers, "BulkDelete")

	ids = cleanIDs(ids)
	if len(ids) == 0 {
		return 0, errs.Invalid("ids are required")
	}
	n, err := s.deps.Store.Users().BulkDelete(ctx, ids)
	if err != nil {
		return 0, internal(log, "bulk delete users failed", err)
	}
	for _, id := range ids {
		invalidateUser(ctx, s.deps.Cache, log, id)
		audit.Log(ctx, audit.UserDeleted, id, logger.Bool("bulk", true))
	}
	log.Info("users deleted", logger.Count(n))
	return n, nil
}

func cleanName(p *string) (*string, error) {
	if p == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*p)
	if v == "" || !validation.ValidPersonName(v) {
		return nil, errs.Invalid("names must be 1 to %d characters", validation.MaxNameLength)
	}
	return &v, nil
}
