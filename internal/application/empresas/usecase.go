// Package empresas implementa la administración de empresas (tenants) y de
// sus usuarios: listado, detalle, alta, actualización parcial e invitaciones.
package empresas

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/grupocodev/facturas-api/internal/application/auth"
	"github.com/grupocodev/facturas-api/internal/application/dto"
	"github.com/grupocodev/facturas-api/internal/domain"
	"github.com/grupocodev/facturas-api/internal/domain/entity"
	"github.com/grupocodev/facturas-api/internal/domain/repository"
	"github.com/grupocodev/facturas-api/internal/listquery"
	"github.com/grupocodev/facturas-api/pkg/jwt"
)

// UseCase casos de uso de empresas.
type UseCase struct {
	empresaRepo         repository.EmpresaRepository
	usuarioRepo         repository.UsuarioRepository
	procesamientoDomain string
}

// NewUseCase construye el caso de uso de empresas.
func NewUseCase(empresaRepo repository.EmpresaRepository, usuarioRepo repository.UsuarioRepository, procesamientoDomain string) *UseCase {
	return &UseCase{empresaRepo: empresaRepo, usuarioRepo: usuarioRepo, procesamientoDomain: procesamientoDomain}
}

func planValido(plan string) bool {
	return plan == entity.PlanBasico || plan == entity.PlanProfesional || plan == entity.PlanEmpresarial
}

// List devuelve la página de empresas. super_admin ve todas; un admin solo
// la suya.
func (uc *UseCase) List(ctx context.Context, actor *jwt.Claims, in dto.EmpresaListRequest) ([]dto.EmpresaResponse, listquery.Meta, error) {
	filtro := dto.EmpresaFilter{
		SortBy:    in.SortBy,
		SortOrder: in.SortOrder,
		Page:      listquery.NewPage(in.Page, in.Limit),
	}
	if actor.Rol != entity.RolSuperAdmin {
		filtro.EmpresaID = actor.EmpresaID
	}
	if p, ok := listquery.SearchPattern(in.Search); ok {
		filtro.Search = p
	}
	if activo, ok := parseBool(in.Activo); ok {
		filtro.Activo = &activo
	}
	if plan, ok := listquery.Text(in.Plan); ok && planValido(plan) {
		filtro.Plan = plan
	}

	empresas, total, err := uc.empresaRepo.List(ctx, filtro)
	if err != nil {
		return nil, listquery.Meta{}, err
	}
	out := make([]dto.EmpresaResponse, 0, len(empresas))
	for _, e := range empresas {
		out = append(out, toResponse(e))
	}
	return out, filtro.Page.Meta(int(total)), nil
}

// Count devuelve el total de empresas bajo filtros simples. Sin filtros
// explícitos cuenta solo las activas. super_admin cuenta todas; cualquier
// otro rol, únicamente la suya.
func (uc *UseCase) Count(ctx context.Context, actor *jwt.Claims, in dto.EmpresaCountRequest) (int64, error) {
	filtro := dto.EmpresaFilter{}
	if actor.Rol != entity.RolSuperAdmin {
		filtro.EmpresaID = actor.EmpresaID
	}
	if activo, ok := parseBool(in.Activo); ok {
		filtro.Activo = &activo
	}
	if plan, ok := listquery.Text(in.Plan); ok && planValido(plan) {
		filtro.Plan = plan
	}
	if filtro.Activo == nil && filtro.Plan == "" {
		activas := true
		filtro.Activo = &activas
	}
	return uc.empresaRepo.Count(ctx, filtro)
}

// GetByID devuelve una empresa. Un actor sin rol super_admin solo puede ver
// la suya.
func (uc *UseCase) GetByID(ctx context.Context, actor *jwt.Claims, id string) (*dto.EmpresaResponse, error) {
	if actor.Rol != entity.RolSuperAdmin && actor.EmpresaID != id {
		return nil, domain.ErrForbidden
	}
	e, err := uc.empresaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*e)
	return &resp, nil
}

// GetByRUC devuelve una empresa por su RUC, con la misma regla de alcance
// que GetByID.
func (uc *UseCase) GetByRUC(ctx context.Context, actor *jwt.Claims, ruc string) (*dto.EmpresaResponse, error) {
	e, err := uc.empresaRepo.GetByRUC(ctx, ruc)
	if err != nil {
		return nil, err
	}
	if actor.Rol != entity.RolSuperAdmin && actor.EmpresaID != e.ID {
		return nil, domain.ErrForbidden
	}
	resp := toResponse(*e)
	return &resp, nil
}

// Create alta de empresa (solo super_admin, verificado en la ruta). El email
// de procesamiento por defecto es <ruc>@<dominio>.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateEmpresaRequest) (*dto.EmpresaResponse, error) {
	nombre, okNombre := listquery.Text(in.Nombre)
	ruc, okRUC := listquery.Text(in.RUC)
	if !okNombre || !okRUC {
		return nil, fmt.Errorf("%w: nombre y RUC son requeridos", domain.ErrInvalidInput)
	}
	plan := in.Plan
	if plan == "" {
		plan = entity.PlanBasico
	}
	if !planValido(plan) {
		return nil, fmt.Errorf("%w: plan desconocido %q", domain.ErrInvalidInput, in.Plan)
	}
	email := strings.ToLower(strings.TrimSpace(in.EmailProcesamiento))
	if email == "" {
		email = strings.ToLower(ruc) + "@" + uc.procesamientoDomain
	}

	empresa := &entity.Empresa{
		Nombre:             nombre,
		RUC:                ruc,
		EmailProcesamiento: email,
		Direccion:          strings.TrimSpace(in.Direccion),
		Telefono:           strings.TrimSpace(in.Telefono),
		Activo:             true,
		Plan:               plan,
	}
	if err := uc.empresaRepo.Create(ctx, empresa); err != nil {
		return nil, err
	}
	resp := toResponse(repository.EmpresaConUsuarios{Empresa: *empresa})
	return &resp, nil
}

// Update actualización parcial: solo los campos con puntero no nil cambian.
// Un admin solo actualiza su propia empresa y no puede cambiar plan ni activo.
func (uc *UseCase) Update(ctx context.Context, actor *jwt.Claims, id string, in dto.UpdateEmpresaRequest) (*dto.EmpresaResponse, error) {
	esSuper := actor.Rol == entity.RolSuperAdmin
	if !esSuper && actor.EmpresaID != id {
		return nil, domain.ErrForbidden
	}
	if !esSuper && (in.Plan != nil || in.Activo != nil) {
		return nil, domain.ErrForbidden
	}

	actual, err := uc.empresaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	empresa := actual.Empresa

	if in.Nombre != nil {
		if nombre, ok := listquery.Text(*in.Nombre); ok {
			empresa.Nombre = nombre
		}
	}
	if in.RUC != nil {
		ruc, ok := listquery.Text(*in.RUC)
		if !ok {
			return nil, fmt.Errorf("%w: RUC vacío", domain.ErrInvalidInput)
		}
		if ruc != empresa.RUC {
			exists, err := uc.empresaRepo.ExistsRUC(ctx, ruc, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrRUCAlreadyExists
			}
			empresa.RUC = ruc
		}
	}
	if in.EmailProcesamiento != nil {
		empresa.EmailProcesamiento = strings.ToLower(strings.TrimSpace(*in.EmailProcesamiento))
	}
	if in.Direccion != nil {
		empresa.Direccion = strings.TrimSpace(*in.Direccion)
	}
	if in.Telefono != nil {
		empresa.Telefono = strings.TrimSpace(*in.Telefono)
	}
	if in.Plan != nil {
		if !planValido(*in.Plan) {
			return nil, fmt.Errorf("%w: plan desconocido %q", domain.ErrInvalidInput, *in.Plan)
		}
		empresa.Plan = *in.Plan
	}
	if in.Activo != nil {
		empresa.Activo = *in.Activo
	}

	if err := uc.empresaRepo.Update(ctx, &empresa); err != nil {
		return nil, err
	}
	actualizado, err := uc.empresaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*actualizado)
	return &resp, nil
}

// Usuarios lista los usuarios de la empresa.
func (uc *UseCase) Usuarios(ctx context.Context, actor *jwt.Claims, empresaID string, in dto.UsuariosEmpresaRequest) ([]dto.UsuarioResponse, listquery.Meta, error) {
	if actor.Rol != entity.RolSuperAdmin && actor.EmpresaID != empresaID {
		return nil, listquery.Meta{}, domain.ErrForbidden
	}

	filtro := dto.UsuarioFilter{
		EmpresaID: empresaID,
		Page:      listquery.NewPage(in.Page, in.Limit),
	}
	if activo, ok := parseBool(in.Activo); ok {
		filtro.Activo = &activo
	}
	if rol, ok := listquery.Text(in.Rol); ok {
		filtro.Rol = rol
	}
	if p, ok := listquery.SearchPattern(in.Search); ok {
		filtro.Search = p
	}

	usuarios, total, err := uc.usuarioRepo.ListByEmpresa(ctx, filtro)
	if err != nil {
		return nil, listquery.Meta{}, err
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		out = append(out, *auth.ToUsuarioResponse(&usuarios[i]))
	}
	return out, filtro.Page.Meta(int(total)), nil
}

// Invite crea un usuario dentro de la empresa. Un admin solo invita a la suya.
func (uc *UseCase) Invite(ctx context.Context, actor *jwt.Claims, empresaID string, in dto.InviteUsuarioRequest) (*dto.UsuarioResponse, error) {
	if actor.Rol != entity.RolSuperAdmin && actor.EmpresaID != empresaID {
		return nil, domain.ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	nombre, okNombre := listquery.Text(in.Nombre)
	if email == "" || !okNombre || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: nombre, email y password (8+ caracteres) son requeridos", domain.ErrInvalidInput)
	}
	rol := in.Rol
	if rol == "" {
		rol = entity.RolUsuario
	}
	if rol != entity.RolAdmin && rol != entity.RolUsuario && rol != entity.RolVisualizador {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, in.Rol)
	}

	if _, err := uc.empresaRepo.GetByID(ctx, empresaID); err != nil {
		return nil, err
	}
	exists, err := uc.usuarioRepo.ExistsEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.Usuario{
		EmpresaID:    empresaID,
		Nombre:       nombre,
		Apellido:     strings.TrimSpace(in.Apellido),
		Email:        email,
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       true,
	}
	if err := uc.usuarioRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUsuarioResponse(user), nil
}

// Estadisticas métricas globales de la plataforma. Solo super_admin.
func (uc *UseCase) Estadisticas(ctx context.Context, actor *jwt.Claims) (*dto.EstadisticasGlobales, error) {
	if actor.Rol != entity.RolSuperAdmin {
		return nil, domain.ErrForbidden
	}
	return uc.empresaRepo.GlobalStats(ctx)
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

func toResponse(e repository.EmpresaConUsuarios) dto.EmpresaResponse {
	resp := dto.EmpresaResponse{
		ID:                 e.ID,
		Nombre:             e.Nombre,
		RUC:                e.RUC,
		EmailProcesamiento: e.EmailProcesamiento,
		Direccion:          e.Direccion,
		Telefono:           e.Telefono,
		Activo:             e.Activo,
		Plan:               e.Plan,
		TotalUsuarios:      e.TotalUsuarios,
		UsuariosActivos:    e.UsuariosActivos,
	}
	if !e.CreatedAt.IsZero() {
		resp.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	if !e.UpdatedAt.IsZero() {
		resp.UpdatedAt = e.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
