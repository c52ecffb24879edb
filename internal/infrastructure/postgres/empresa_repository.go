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

var _ repository.EmpresaRepository = (*EmpresaRepo)(nil)

// empresaSort allow-list de orden del listado de empresas.
var empresaSort = listquery.SortSet{
	Default: "e.created_at",
	Allowed: map[string]string{
		"nombre":     "e.nombre",
		"ruc":        "e.ruc",
		"plan":       "e.plan",
		"created_at": "e.created_at",
		"updated_at": "e.updated_at",
	},
}

// EmpresaRepo implementación de EmpresaRepository (usable con pool o tx).
type EmpresaRepo struct {
	q Querier
}

// NewEmpresaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmpresaRepository(q Querier) *EmpresaRepo {
	return &EmpresaRepo{q: q}
}

const empresaColumnas = `
	e.id, e.nombre, e.ruc, e.email_procesamiento,
	COALESCE(e.direccion, ''), COALESCE(e.telefono, ''), e.activo, e.plan,
	e.created_at, e.updated_at,
	COUNT(u.id) AS total_usuarios,
	COUNT(u.id) FILTER (WHERE u.activo) AS usuarios_activos`

// empresaPredicados WHERE compartido entre el listado y el conteo.
func empresaPredicados(f dto.EmpresaFilter) *listquery.Builder {
	b := listquery.NewBuilder()
	if f.EmpresaID != "" {
		b.Scope("e.id", f.EmpresaID)
	}
	if f.Search != "" {
		b.And("(e.nombre ILIKE ? OR e.ruc ILIKE ?)", f.Search, f.Search)
	}
	if f.Activo != nil {
		b.And("e.activo = ?", *f.Activo)
	}
	if f.Plan != "" {
		b.And("e.plan = ?", f.Plan)
	}
	return b
}

// List devuelve la página de empresas con su conteo de usuarios.
func (r *EmpresaRepo) List(ctx context.Context, filtro dto.EmpresaFilter) ([]repository.EmpresaConUsuarios, int64, error) {
	b := empresaPredicados(filtro)

	limitFrag, dataArgs := b.PageArgs(filtro.Page)
	query := "SELECT" + empresaColumnas + `
	FROM empresas e
	LEFT JOIN usuarios u ON u.empresa_id = e.id ` + b.Where() + `
	GROUP BY e.id ` +
		empresaSort.OrderBy(filtro.SortBy, filtro.SortOrder) + " " + limitFrag

	rows, err := r.q.Query(ctx, query, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list empresas: %w", err)
	}
	defer rows.Close()

	var empresas []repository.EmpresaConUsuarios
	for rows.Next() {
		var e repository.EmpresaConUsuarios
		if err := scanEmpresa(rows, &e); err != nil {
			return nil, 0, err
		}
		empresas = append(empresas, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM empresas e " + b.Where()
	if err := r.q.QueryRow(ctx, countQuery, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count empresas: %w", err)
	}
	return empresas, total, nil
}

func scanEmpresa(row pgx.Row, e *repository.EmpresaConUsuarios) error {
	if err := row.Scan(
		&e.ID, &e.Nombre, &e.RUC, &e.EmailProcesamiento,
		&e.Direccion, &e.Telefono, &e.Activo, &e.Plan,
		&e.CreatedAt, &e.UpdatedAt,
		&e.TotalUsuarios, &e.UsuariosActivos,
	); err != nil {
		return fmt.Errorf("scan empresa: %w", err)
	}
	return nil
}

// Count total de empresas bajo los mismos predicados del listado.
func (r *EmpresaRepo) Count(ctx context.Context, filtro dto.EmpresaFilter) (int64, error) {
	b := empresaPredicados(filtro)
	var total int64
	query := "SELECT COUNT(*) FROM empresas e " + b.Where()
	if err := r.q.QueryRow(ctx, query, b.Args()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count empresas: %w", err)
	}
	return total, nil
}

// GetByID obtiene una empresa con su conteo de usuarios.
func (r *EmpresaRepo) GetByID(ctx context.Context, id string) (*repository.EmpresaConUsuarios, error) {
	query := "SELECT" + empresaColumnas + `
	FROM empresas e
	LEFT JOIN usuarios u ON u.empresa_id = e.id
	WHERE e.id = $1
	GROUP BY e.id`

	var e repository.EmpresaConUsuarios
	if err := scanEmpresa(r.q.QueryRow(ctx, query, id), &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmpresaNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetByRUC obtiene una empresa por su RUC.
func (r *EmpresaRepo) GetByRUC(ctx context.Context, ruc string) (*repository.EmpresaConUsuarios, error) {
	query := "SELECT" + empresaColumnas + `
	FROM empresas e
	LEFT JOIN usuarios u ON u.empresa_id = e.id
	WHERE e.ruc = $1
	GROUP BY e.id`

	var e repository.EmpresaConUsuarios
	if err := scanEmpresa(r.q.QueryRow(ctx, query, ruc), &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmpresaNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create persiste una empresa. RUC y email de procesamiento son únicos.
func (r *EmpresaRepo) Create(ctx context.Context, empresa *entity.Empresa) error {
	if empresa.ID == "" {
		empresa.ID = uuid.New().String()
	}
	now := time.Now()
	empresa.CreatedAt = now
	empresa.UpdatedAt = now

	query := `
	INSERT INTO empresas (id, nombre, ruc, email_procesamiento, direccion, telefono, activo, plan, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		empresa.ID, empresa.Nombre, empresa.RUC, empresa.EmailProcesamiento,
		nullIfEmpty(empresa.Direccion), nullIfEmpty(empresa.Telefono),
		empresa.Activo, empresa.Plan, empresa.CreatedAt, empresa.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRUCAlreadyExists
		}
		return fmt.Errorf("insert empresa: %w", err)
	}
	return nil
}

// Update actualiza todos los campos editables de la empresa.
func (r *EmpresaRepo) Update(ctx context.Context, empresa *entity.Empresa) error {
	empresa.UpdatedAt = time.Now()
	query := `
	UPDATE empresas
	SET nombre = $2, ruc = $3, email_procesamiento = $4,
	    direccion = $5, telefono = $6, activo = $7, plan = $8, updated_at = $9
	WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		empresa.ID, empresa.Nombre, empresa.RUC, empresa.EmailProcesamiento,
		nullIfEmpty(empresa.Direccion), nullIfEmpty(empresa.Telefono),
		empresa.Activo, empresa.Plan, empresa.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRUCAlreadyExists
		}
		return fmt.Errorf("update empresa: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEmpresaNotFound
	}
	return nil
}

// GlobalStats métricas de toda la plataforma en tres consultas: totales,
// usuarios por rol y empresas por plan. Las facturas eliminadas no cuentan.
func (r *EmpresaRepo) GlobalStats(ctx context.Context) (*dto.EstadisticasGlobales, error) {
	var stats dto.EstadisticasGlobales
	query := `
	SELECT
		(SELECT COUNT(*) FROM empresas),
		(SELECT COUNT(*) FROM empresas WHERE activo),
		(SELECT COUNT(*) FROM usuarios),
		(SELECT COUNT(*) FROM usuarios WHERE activo),
		(SELECT COUNT(*) FROM facturas WHERE estado != 'eliminado'),
		(SELECT COUNT(*) FROM facturas WHERE estado != 'eliminado' AND created_at >= NOW() - INTERVAL '24 hours')`
	if err := r.q.QueryRow(ctx, query).Scan(
		&stats.TotalEmpresas, &stats.EmpresasActivas,
		&stats.TotalUsuarios, &stats.UsuariosActivos,
		&stats.TotalFacturas, &stats.FacturasUltimo24h,
	); err != nil {
		return nil, fmt.Errorf("global stats: %w", err)
	}

	porRol, err := r.conteoPorClave(ctx, `SELECT rol, COUNT(*) FROM usuarios GROUP BY rol ORDER BY rol`)
	if err != nil {
		return nil, err
	}
	stats.UsuariosPorRol = porRol

	porPlan, err := r.conteoPorClave(ctx, `SELECT plan, COUNT(*) FROM empresas GROUP BY plan ORDER BY plan`)
	if err != nil {
		return nil, err
	}
	stats.EmpresasPorPlan = porPlan
	return &stats, nil
}

func (r *EmpresaRepo) conteoPorClave(ctx context.Context, query string) ([]dto.ConteoPorClave, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("conteo por clave: %w", err)
	}
	defer rows.Close()

	out := []dto.ConteoPorClave{}
	for rows.Next() {
		var c dto.ConteoPorClave
		if err := rows.Scan(&c.Clave, &c.Cantidad); err != nil {
			return nil, fmt.Errorf("scan conteo: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ExistsRUC indica si otra empresa ya usa el RUC dado.
func (r *EmpresaRepo) ExistsRUC(ctx context.Context, ruc, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM empresas WHERE ruc = $1 AND id::text != $2)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, ruc, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists ruc: %w", err)
	}
	return exists, nil
}
