package service

import (
	"context"
	"strings"

	"github.com/gestaozabele/cidadao/internal/logging"
	"github.com/gestaozabele/cidadao/internal/repo"
	"github.com/gestaozabele/cidadao/internal/util"
)

// DefaultStatus é aplicado quando a demanda chega sem status.
const DefaultStatus = "Nova"

const (
	msgCreateUnauthorized = "Você precisa estar logado para criar uma demanda."
	msgUpdateUnauthorized = "Você precisa estar logado para atualizar uma demanda."
	msgCreateMissing      = "Por favor, forneça categoria, descrição e localização da demanda."
	msgCreateCoordinates  = "Latitude e longitude devem ser numéricas."
	msgSecretariatInvalid = "ID da secretaria inválido."
	msgDemandIDMissing    = "O ID da demanda é obrigatório para atualização."
	msgDemandIDInvalid    = "ID da demanda inválido."
	msgNothingToUpdate    = "Nenhum campo para atualizar fornecido (status ou secretaria)."
	msgCreateStorage      = "Erro interno do servidor ao criar demanda."
	msgListStorage        = "Erro interno do servidor ao buscar demandas."
	msgUpdateStorage      = "Erro interno do servidor ao atualizar demanda."
)

type demandRepository interface {
	CreateDemand(ctx context.Context, arg repo.CreateDemandParams) (int64, error)
	ListDemands(ctx context.Context) ([]repo.Demand, error)
	UpdateDemand(ctx context.Context, id int64, patch repo.DemandPatch) (int64, error)
}

// CreateDemandInput traz os campos crus do formulário; coordenadas e secretaria
// chegam como texto e são convertidas aqui.
type CreateDemandInput struct {
	Category      string
	Description   string
	Latitude      *string
	Longitude     *string
	Status        string
	SecretariatID *string
}

// UpdateDemandInput traz os campos da atualização parcial. SecretariatID nil
// significa campo ausente (ou null) e mantém o valor atual.
type UpdateDemandInput struct {
	DemandID      string
	Status        string
	SecretariatID *string
}

// DemandService concentra o ciclo de vida das demandas.
type DemandService struct {
	repo   demandRepository
	errLog *logging.ErrorLog
}

// NewDemandService cria novo serviço.
func NewDemandService(r demandRepository, errLog *logging.ErrorLog) *DemandService {
	if errLog == nil {
		errLog = logging.Nop()
	}
	return &DemandService{repo: r, errLog: errLog}
}

// AuthorizeCreate aplica apenas a checagem de sessão de Create.
func (s *DemandService) AuthorizeCreate(sess Session) error {
	_, err := requireSession(sess, msgCreateUnauthorized)
	return err
}

// AuthorizeUpdate aplica apenas a checagem de sessão de Update.
func (s *DemandService) AuthorizeUpdate(sess Session) error {
	_, err := requireSession(sess, msgUpdateUnauthorized)
	return err
}

// Create abre demanda em nome do usuário da sessão.
func (s *DemandService) Create(ctx context.Context, sess Session, in CreateDemandInput) (int64, error) {
	userID, err := requireSession(sess, msgCreateUnauthorized)
	if err != nil {
		return 0, err
	}

	category := util.Sanitize(in.Category)
	description := util.Sanitize(in.Description)
	if category == "" || description == "" || blank(in.Latitude) || blank(in.Longitude) {
		return 0, newError(ErrInvalidInput, msgCreateMissing, nil)
	}

	lat, err := util.ParseCoordinate(*in.Latitude)
	if err != nil {
		return 0, newError(ErrInvalidInput, msgCreateCoordinates, err)
	}
	lng, err := util.ParseCoordinate(*in.Longitude)
	if err != nil {
		return 0, newError(ErrInvalidInput, msgCreateCoordinates, err)
	}

	var secretariatID *int64
	if in.SecretariatID != nil {
		raw := strings.TrimSpace(*in.SecretariatID)
		if raw != "" && raw != "0" {
			id, err := util.ParseID(raw)
			if err != nil {
				return 0, newError(ErrInvalidInput, msgSecretariatInvalid, err)
			}
			secretariatID = &id
		}
	}

	status := util.Sanitize(in.Status)
	if status == "" {
		status = DefaultStatus
	}

	id, err := s.repo.CreateDemand(ctx, repo.CreateDemandParams{
		UserID:        userID,
		Category:      category,
		Description:   description,
		Latitude:      lat,
		Longitude:     lng,
		Status:        status,
		SecretariatID: secretariatID,
	})
	if err != nil {
		s.errLog.Error().Err(err).Int64("user_id", userID).Msg("erro de banco de dados ao criar demanda")
		return 0, newError(ErrStorage, msgCreateStorage, err)
	}

	return id, nil
}

// List devolve todas as demandas; leitura aberta.
func (s *DemandService) List(ctx context.Context) ([]repo.Demand, error) {
	demands, err := s.repo.ListDemands(ctx)
	if err != nil {
		s.errLog.Error().Err(err).Msg("erro de banco de dados ao buscar demandas")
		return nil, newError(ErrStorage, msgListStorage, err)
	}
	if demands == nil {
		demands = []repo.Demand{}
	}
	return demands, nil
}

// Update aplica atualização parcial de status e/ou secretaria. Qualquer
// usuário logado pode atualizar qualquer demanda; id inexistente não é erro.
func (s *DemandService) Update(ctx context.Context, sess Session, in UpdateDemandInput) error {
	userID, err := requireSession(sess, msgUpdateUnauthorized)
	if err != nil {
		return err
	}

	rawID := util.Sanitize(in.DemandID)
	if rawID == "" {
		return newError(ErrInvalidInput, msgDemandIDMissing, nil)
	}
	demandID, err := util.ParseID(rawID)
	if err != nil {
		return newError(ErrInvalidInput, msgDemandIDInvalid, err)
	}

	patch, err := buildPatch(in)
	if err != nil {
		return err
	}

	affected, err := s.repo.UpdateDemand(ctx, demandID, patch)
	if err != nil {
		s.errLog.Error().Err(err).Int64("demand_id", demandID).Int64("user_id", userID).Msg("erro de banco de dados ao atualizar demanda")
		return newError(ErrStorage, msgUpdateStorage, err)
	}

	if affected == 0 {
		s.errLog.Debug().Int64("demand_id", demandID).Msg("atualização de demanda sem linhas afetadas")
	}
	return nil
}

func buildPatch(in UpdateDemandInput) (repo.DemandPatch, error) {
	var patch repo.DemandPatch

	if status := util.Sanitize(in.Status); status != "" {
		patch.Status = &status
	}

	if in.SecretariatID != nil {
		switch raw := strings.TrimSpace(*in.SecretariatID); raw {
		case "", "0":
			patch.Secretariat = repo.SecretariatClear
		default:
			id, err := util.ParseID(raw)
			if err != nil {
				return repo.DemandPatch{}, newError(ErrInvalidInput, msgSecretariatInvalid, err)
			}
			patch.Secretariat = repo.SecretariatAssign
			patch.SecretariatID = id
		}
	}

	if patch.Empty() {
		return repo.DemandPatch{}, newError(ErrInvalidInput, msgNothingToUpdate, nil)
	}
	return patch, nil
}

func blank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}
