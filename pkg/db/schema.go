package db

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS cupons (
	id                 UUID PRIMARY KEY,
	codigo             TEXT NOT NULL,
	tipo               TEXT NOT NULL,
	valor              NUMERIC(10,2),
	ativo              BOOLEAN NOT NULL DEFAULT TRUE,
	data_expiracao     DATE,
	limite_total       INTEGER,
	usos_totais        INTEGER NOT NULL DEFAULT 0,
	limite_por_usuario INTEGER,
	valor_minimo       NUMERIC(10,2),
	quantidade_minima  INTEGER,
	criado_em          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	atualizado_em      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS cupons_codigo_lower_idx ON cupons (lower(codigo));

CREATE TABLE IF NOT EXISTS cupom_usos_usuario (
	cupom_id   UUID NOT NULL REFERENCES cupons(id) ON DELETE CASCADE,
	usuario_id TEXT NOT NULL,
	usos       INTEGER NOT NULL DEFAULT 0,
	ultimo_uso TIMESTAMPTZ,
	PRIMARY KEY (cupom_id, usuario_id)
);
`

// EnsureSchema creates the coupon tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "ensure schema")
	}
	return nil
}
