package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/internal/listquery"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo implementación de UsuarioRepository (usable con pool o tx).
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

const usuarioColumnas = `
	id, COALESCE(empresa_id::text, ''), nombre, apellido, email, password_hash, rol, activo,
	intentos_fallidos, bloqueado_hasta, ultimo_acceso, created_at, updated_at`

func scanUsuario(row pgx.Row) (*entity.Usuario, error) {
	var u entity.Usuario
	err := row.Scan(
		&u.ID, &u.EmpresaID, &u.Nombre, &u.Apellido, &u.Email, &u.PasswordHash, &u.Rol, &u.Activo,
		&u.IntentosFallidos, &u.BloqueadoHasta, &u.UltimoAcceso, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan usuario: %w", err)
	}
	return &u, nil
}

// GetByEmail busca un usuario por email (case-insensitive).
func (r *UsuarioRepo) GetByEmail(ctx context.Context, email string) (*entity.Usuario, error) {
	query := "SELECT" + usuarioColumnas + " FROM usuarios WHERE LOWER(email) = LOWER($1)"
	return scanUsuario(r.q.QueryRow(ctx, query, email))
}

// GetByID busca un usuario por ID.
func (r *UsuarioRepo) GetByID(ctx context.Context, id string) (*entity.Usuario, error) {
	query := "SELECT" + usuarioColumnas + " FROM usuarios WHERE id = $1"
	return scanUsuario(r.q.QueryRow(ctx, query, id))
}

// Create persiste un usuario nuevo. El email es único a nivel de base.
func (r *UsuarioRepo) Create(ctx context.Context, usuario *entity.Usuario) error {
	if usuario.ID == "" {
		usuario.ID = uuid.New().String()
	}
	now := time.Now()
	usuario.CreatedAt = now
	usuario.UpdatedAt = now

	query := `
	INSERT INTO usuarios (id, empresa_id, nombre, apellido, email, password_hash, rol, activo, intentos_fallidos, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		usuario.ID, nullIfEmpty(usuario.EmpresaID), usuario.Nombre, usuario.Apellido,
		usuario.Email, usuario.PasswordHash, usuario.Rol, usuario.Activo,
		usuario.CreatedAt, usuario.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// ListByEmpresa devuelve la página de usuarios de la empresa y el total.
func (r *UsuarioRepo) ListByEmpresa(ctx context.Context, filtro dto.UsuarioFilter) ([]entity.Usuario, int64, error) {
	b := listquery.NewBuilder()
	b.Scope("empresa_id", filtro.EmpresaID)
	if filtro.Activo != nil {
		b.And("activo = ?", *filtro.Activo)
	}
	if filtro.Rol != "" {
		b.And("rol = ?", filtro.Rol)
	}
	if filtro.Search != "" {
		b.And("(nombre ILIKE ? OR apellido ILIKE ? OR email ILIKE ?)", filtro.Search, filtro.Search, filtro.Search)
	}

	limitFrag, dataArgs := b.PageArgs(filtro.Page)
	query := "SELECT" + usuarioColumnas + `
	FROM usuarios ` + b.Where() + `
	ORDER BY created_at DESC ` + limitFrag

	rows, err := r.q.Query(ctx, query, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()

	var usuarios []entity.Usuario
	for rows.Next() {
		var u entity.Usuario
		if err := rows.Scan(
			&u.ID, &u.EmpresaID, &u.Nombre, &u.Apellido, &u.Email, &u.PasswordHash, &u.Rol, &u.Activo,
			&u.IntentosFallidos, &u.BloqueadoHasta, &u.UltimoAcceso, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan usuario: %w", err)
		}
		usuarios = append(usuarios, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM usuarios " + b.Where()
	if err := r.q.QueryRow(ctx, countQuery, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count usuarios: %w", err)
	}
	return usuarios, total, nil
}

// UpdatePassword reemplaza el hash de password.
func (r *UsuarioRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE usuarios SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// RegistrarIntentoFallido incrementa el contador y fija el bloqueo si aplica.
func (r *UsuarioRepo) RegistrarIntentoFallido(ctx context.Context, id string, bloquearHasta *time.Time) error {
	query := `
	UPDATE usuarios
	SET intentos_fallidos = intentos_fallidos + 1,
	    bloqueado_hasta = COALESCE($2, bloqueado_hasta),
	    updated_at = NOW()
	WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id, bloquearHasta); err != nil {
		return fmt.Errorf("registrar intento fallido: %w", err)
	}
	return nil
}

// ResetearIntentos limpia el contador tras un login exitoso.
func (r *UsuarioRepo) ResetearIntentos(ctx context.Context, id string, ultimoAcceso time.Time) error {
	query := `
	UPDATE usuarios
	SET intentos_fallidos = 0, bloqueado_hasta = NULL, ultimo_acceso = $2, updated_at = NOW()
	WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id, ultimoAcceso); err != nil {
		return fmt.Errorf("resetear intentos: %w", err)
	}
	return nil
}

// ExistsEmail indica si el email ya está registrado.
func (r *UsuarioRepo) ExistsEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM usuarios WHERE LOWER(email) = LOWER($1))`
	var exists bool
	if err := r.q.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists email: %w", err)
	}
	return exists, nil
}

// RegistrarAcceso inserta un registro de auditoría de autenticación.
func (r *UsuarioRepo) RegistrarAcceso(ctx context.Context, log *entity.LogAcceso) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	query := `
	INSERT INTO logs_acceso (id, usuario_id, email, accion, ip_address, user_agent, detalles, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		log.ID, nullIfEmpty(log.UsuarioID), log.Email, log.Accion,
		nullIfEmpty(log.IPAddress), nullIfEmpty(log.UserAgent), nullIfEmpty(log.Detalles),
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert log acceso: %w", err)
	}
	return nil
}
