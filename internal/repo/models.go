package repo

import "time"

// User representa cidadão cadastrado.
type User struct {
	ID           int64
	Name         string
	Email        string
	Cpf          string
	Phone        string
	Address      string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUserParams são os campos gravados no cadastro.
type CreateUserParams struct {
	Name         string
	Email        string
	Cpf          string
	Phone        string
	Address      string
	PasswordHash string
}

// Demand representa uma demanda aberta por cidadão.
type Demand struct {
	ID            int64   `json:"id"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Status        string  `json:"status"`
	SecretariatID *int64  `json:"secretariat_id"`
}

// CreateDemandParams são os campos gravados na abertura de demanda.
type CreateDemandParams struct {
	UserID        int64
	Category      string
	Description   string
	Latitude      float64
	Longitude     float64
	Status        string
	SecretariatID *int64
}
