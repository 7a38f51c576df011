package repository

import (
	"context"
	"encoding/json"

	"github.com/stayware/ticketdesk/internal/model"
)

const roleColumns = "id,name,permissions,is_system,created_at,updated_at"

// GetRolesForUser returns the roles assigned to a user, permission blobs
// decoded.  Users with no assignments get an empty slice; permission
// evaluation treats that as deny-everything.
func (s *UserStore) GetRolesForUser(ctx context.Context, userID uint64) ([]model.Role, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT r.id, r.name, r.permissions, r.is_system, r.created_at, r.updated_at "+
			"FROM roles r JOIN user_roles ur ON ur.role_id = r.id WHERE ur.user_id=? ORDER BY ur.created_at",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// ListRoles returns every role, for the admin UI.
func (s *UserStore) ListRoles(ctx context.Context) ([]model.Role, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT "+roleColumns+" FROM roles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// AssignRole links a role to a user.  Re-assigning is a no-op.
func (s *UserStore) AssignRole(ctx context.Context, userID, roleID uint64) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT IGNORE INTO user_roles (user_id, role_id) VALUES (?,?)", userID, roleID)
	return err
}

// UpdateRolePermissions replaces a role's permission mapping.  Callers
// validate the mapping against the permission catalog first.
func (s *UserStore) UpdateRolePermissions(ctx context.Context, roleID uint64, perms map[string][]string) error {
	blob, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx,
		"UPDATE roles SET permissions=?, updated_at=NOW() WHERE id=?", blob, roleID)
	return err
}

// DeleteRole removes a non-system role.  System roles return ErrConflict.
func (s *UserStore) DeleteRole(ctx context.Context, roleID uint64) error {
	var isSystem bool
	err := s.DB.QueryRowContext(ctx,
		"SELECT is_system FROM roles WHERE id=? LIMIT 1", roleID).Scan(&isSystem)
	if err != nil {
		return err
	}
	if isSystem {
		return ErrConflict
	}
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM user_roles WHERE role_id=?", roleID); err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, "DELETE FROM roles WHERE id=?", roleID)
	return err
}

func scanRole(row rowScanner) (model.Role, error) {
	var (
		role model.Role
		blob []byte
	)
	if err := row.Scan(&role.ID, &role.Name, &blob, &role.IsSystem, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return model.Role{}, err
	}
	role.Permissions = map[string][]string{}
	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &role.Permissions); err != nil {
			return model.Role{}, err
		}
	}
	return role, nil
}
