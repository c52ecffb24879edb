package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grupocodev/facturas-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con
// repositorios atados a la tx. Commit solo si fn devuelve nil.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunRegistro abre una transacción con repos de empresa y usuario, para el
// registro público: si falla el alta del admin, la empresa no queda huérfana.
func (r *TxRunner) RunRegistro(ctx context.Context, fn func(
	empresaRepo repository.EmpresaRepository,
	usuarioRepo repository.UsuarioRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewEmpresaRepository(tx), NewUsuarioRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunFacturas abre una transacción con el repo de facturas, para las
// transiciones de estado (update + log en una sola unidad).
func (r *TxRunner) RunFacturas(ctx context.Context, fn func(
	facturaRepo repository.FacturaRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewFacturaRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
