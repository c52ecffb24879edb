package entity

import "time"

// Planes de suscripción.
const (
	PlanBasico      = "basico"
	PlanProfesional = "profesional"
	PlanEmpresarial = "empresarial"
)

// Empresa raíz del tenant: agrupa usuarios y (conceptualmente) facturas.
// RUC y EmailProcesamiento son únicos a nivel de base de datos.
type Empresa struct {
	ID                 string
	Nombre             string
	RUC                string
	EmailProcesamiento string // <ruc>@<dominio de procesamiento>
	Direccion          string
	Telefono           string
	Activo             bool
	Plan               string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
