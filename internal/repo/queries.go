package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// DBTX é o subconjunto do pgxpool usado pelas queries.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries agrupa o acesso às tabelas users e demands.
type Queries struct {
	db DBTX
}

// New cria Queries sobre pool ou conexão.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// CreateUser insere usuário e classifica violações de unicidade.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	const query = `
        INSERT INTO users (name, email, cpf, phone, address, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `

	var id int64
	err := q.db.QueryRow(ctx, query, arg.Name, arg.Email, arg.Cpf, arg.Phone, arg.Address, arg.PasswordHash).Scan(&id)
	if err != nil {
		return 0, classifyUserInsert(err)
	}
	return id, nil
}

// GetUserByCpf busca credenciais pelo CPF.
func (q *Queries) GetUserByCpf(ctx context.Context, cpf string) (User, error) {
	const query = `
        SELECT id, name, email, cpf, phone, address, password_hash, created_at
        FROM users
        WHERE cpf = $1
    `

	var u User
	err := q.db.QueryRow(ctx, query, cpf).Scan(&u.ID, &u.Name, &u.Email, &u.Cpf, &u.Phone, &u.Address, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// CreateDemand insere demanda do usuário autenticado.
func (q *Queries) CreateDemand(ctx context.Context, arg CreateDemandParams) (int64, error) {
	const query = `
        INSERT INTO demands (user_id, category, description, latitude, longitude, status, secretariat_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `

	var id int64
	err := q.db.QueryRow(ctx, query,
		arg.UserID,
		arg.Category,
		arg.Description,
		arg.Latitude,
		arg.Longitude,
		arg.Status,
		arg.SecretariatID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListDemands devolve todas as demandas na ordem nativa do banco.
func (q *Queries) ListDemands(ctx context.Context) ([]Demand, error) {
	const query = `SELECT id, category, description, latitude, longitude, status, secretariat_id FROM demands`

	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	demands := make([]Demand, 0)
	for rows.Next() {
		var d Demand
		if err := rows.Scan(&d.ID, &d.Category, &d.Description, &d.Latitude, &d.Longitude, &d.Status, &d.SecretariatID); err != nil {
			return nil, err
		}
		demands = append(demands, d)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return demands, nil
}

// UpdateDemand aplica o patch sem checar existência; devolve linhas afetadas.
func (q *Queries) UpdateDemand(ctx context.Context, id int64, patch DemandPatch) (int64, error) {
	query, args, err := patch.build(id)
	if err != nil {
		return 0, err
	}

	tag, err := q.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Ping valida a conexão.
func (q *Queries) Ping(ctx context.Context) error {
	var one int
	return q.db.QueryRow(ctx, `SELECT 1`).Scan(&one)
}

func classifyUserInsert(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "users_email_unique":
			return ErrDuplicateEmail
		case "users_cpf_unique":
			return ErrDuplicateCpf
		}
	}
	return err
}

// SQLState extrai o código SQLSTATE de um erro do driver, se houver.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
