package repositoryImp

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"herbal/entities"
	"herbal/pkg/plant/repository"
)

// ChangeChannel is the Postgres NOTIFY channel raised by every write.
const ChangeChannel = "plants_changed"

const schema = `
CREATE TABLE IF NOT EXISTS plants (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    benefit     TEXT NOT NULL DEFAULT '',
    compounds   JSONB NOT NULL DEFAULT '[]',
    image_url   TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS plants_created_at_idx ON plants (created_at DESC);`

const plantColumns = `id, name, description, benefit, compounds, image_url, created_at, updated_at`

var _ repository.PlantRepository = (*PostgresRepo)(nil)

// PostgresRepo stores plants in Postgres and announces every write on
// ChangeChannel so other instances can refresh their live views.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dburl and makes sure the plants table exists.
func NewPostgres(ctx context.Context, dburl string) (*PostgresRepo, error) {
	if dburl == "" {
		return nil, errors.New("postgres: database url not set")
	}
	pool, err := pgxpool.New(ctx, dburl)
	if err != nil {
		return nil, fmt.Errorf("postgres: pool: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: schema: %w", err)
	}
	return &PostgresRepo{pool: pool}, nil
}

// Close closes all connections of the pool.
func (r *PostgresRepo) Close() { r.pool.Close() }

// Ping checks that the database answers.
func (r *PostgresRepo) Ping(ctx context.Context) error { return r.pool.Ping(ctx) }

func (r *PostgresRepo) Create(ctx context.Context, p *entities.Plant) error {
	if p.ID == "" {
		p.ID = ulid.Make().String()
	}
	compounds := p.Compounds
	if compounds == nil {
		compounds = []entities.Compound{}
	}
	return r.write(ctx, p.ID, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
INSERT INTO plants (id, name, description, benefit, compounds, image_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at;`,
			p.ID, p.Name, p.Description, p.Benefit, compounds, p.ImageURL,
		).Scan(&p.CreatedAt, &p.UpdatedAt)
	})
}

func (r *PostgresRepo) Update(ctx context.Context, p *entities.Plant) error {
	compounds := p.Compounds
	if compounds == nil {
		compounds = []entities.Compound{}
	}
	return r.write(ctx, p.ID, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
UPDATE plants
SET name = $2, description = $3, benefit = $4, compounds = $5, image_url = $6, updated_at = now()
WHERE id = $1
RETURNING updated_at;`,
			p.ID, p.Name, p.Description, p.Benefit, compounds, p.ImageURL,
		).Scan(&p.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	})
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	return r.write(ctx, id, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM plants WHERE id = $1;`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (*entities.Plant, error) {
	rows, _ := r.pool.Query(ctx, `SELECT `+plantColumns+` FROM plants WHERE id = $1;`, id)
	p, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[entities.Plant])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepo) ListNewestFirst(ctx context.Context) ([]entities.Plant, error) {
	rows, _ := r.pool.Query(ctx, `SELECT `+plantColumns+` FROM plants ORDER BY created_at DESC, id DESC;`)
	return pgx.CollectRows(rows, pgx.RowToStructByPos[entities.Plant])
}

// ListenChanges blocks until ctx ends, calling onChange for every notification
// on ChangeChannel, including those raised by other instances.
func (r *PostgresRepo) ListenChanges(ctx context.Context, onChange func(ctx context.Context)) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("postgres: acquire listener: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel+";"); err != nil {
		return fmt.Errorf("postgres: listen: %w", err)
	}
	glog.Infof("[pg] listening on %s", ChangeChannel)
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("postgres: wait for notification: %w", err)
		}
		glog.V(1).Infof("[pg] %s id=%s pid=%d", n.Channel, n.Payload, n.PID)
		onChange(ctx)
	}
}

func (r *PostgresRepo) write(ctx context.Context, id string, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `SELECT pg_notify($1, $2);`, ChangeChannel, id)
		return err
	})
}
