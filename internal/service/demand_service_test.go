package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/cidadao/internal/logging"
	"github.com/gestaozabele/cidadao/internal/repo"
)

type stubDemandRepo struct {
	demands  []repo.Demand
	created  []repo.CreateDemandParams
	patches  []repo.DemandPatch
	patchIDs []int64
	err      error
}

func (s *stubDemandRepo) CreateDemand(ctx context.Context, arg repo.CreateDemandParams) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.created = append(s.created, arg)
	id := int64(len(s.demands) + 1)
	s.demands = append(s.demands, repo.Demand{
		ID:            id,
		Category:      arg.Category,
		Description:   arg.Description,
		Latitude:      arg.Latitude,
		Longitude:     arg.Longitude,
		Status:        arg.Status,
		SecretariatID: arg.SecretariatID,
	})
	return id, nil
}

func (s *stubDemandRepo) ListDemands(ctx context.Context) ([]repo.Demand, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.demands, nil
}

// UpdateDemand imita o UPDATE: sem checagem de existência.
func (s *stubDemandRepo) UpdateDemand(ctx context.Context, id int64, patch repo.DemandPatch) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.patches = append(s.patches, patch)
	s.patchIDs = append(s.patchIDs, id)
	for i := range s.demands {
		if s.demands[i].ID != id {
			continue
		}
		if patch.Status != nil {
			s.demands[i].Status = *patch.Status
		}
		switch patch.Secretariat {
		case repo.SecretariatAssign:
			v := patch.SecretariatID
			s.demands[i].SecretariatID = &v
		case repo.SecretariatClear:
			s.demands[i].SecretariatID = nil
		}
		return 1, nil
	}
	return 0, nil
}

func ptr(s string) *string { return &s }

func validCreate() CreateDemandInput {
	return CreateDemandInput{
		Category:    "Iluminação",
		Description: "lâmpada queimada",
		Latitude:    ptr("-23.5"),
		Longitude:   ptr("-46.6"),
	}
}

func TestCreateRequiresSession(t *testing.T) {
	r := &stubDemandRepo{}
	svc := NewDemandService(r, nil)

	_, err := svc.Create(context.Background(), Anonymous(), CreateDemandInput{})
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Empty(t, r.created)
}

func TestCreateMissingRequiredFields(t *testing.T) {
	cases := map[string]func(*CreateDemandInput){
		"category":    func(in *CreateDemandInput) { in.Category = "" },
		"description": func(in *CreateDemandInput) { in.Description = "   " },
		"latitude":    func(in *CreateDemandInput) { in.Latitude = nil },
		"longitude":   func(in *CreateDemandInput) { in.Longitude = nil },
		"blank lat":   func(in *CreateDemandInput) { in.Latitude = ptr("") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := &stubDemandRepo{}
			svc := NewDemandService(r, nil)
			in := validCreate()
			mutate(&in)

			_, err := svc.Create(context.Background(), NewSession(1), in)
			require.ErrorIs(t, err, ErrInvalidInput)
			require.Equal(t, msgCreateMissing, Message(err))
			require.Empty(t, r.created)
		})
	}
}

func TestCreateRejectsNonNumericCoordinates(t *testing.T) {
	r := &stubDemandRepo{}
	svc := NewDemandService(r, nil)
	in := validCreate()
	in.Longitude = ptr("oeste")

	_, err := svc.Create(context.Background(), NewSession(1), in)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, r.created)
}

func TestCreateDefaultsStatus(t *testing.T) {
	r := &stubDemandRepo{}
	svc := NewDemandService(r, nil)

	id, err := svc.Create(context.Background(), NewSession(9), validCreate())
	require.NoError(t, err)
	require.EqualValues(t, 1, id)
	require.Len(t, r.created, 1)
	require.Equal(t, "Nova", r.created[0].Status)
	require.EqualValues(t, 9, r.created[0].UserID)
	require.Equal(t, -23.5, r.created[0].Latitude)
	require.Nil(t, r.created[0].SecretariatID)
}

func TestCreateKeepsStatusAndSecretariat(t *testing.T) {
	r := &stubDemandRepo{}
	svc := NewDemandService(r, nil)
	in := validCreate()
	in.Status = "Em análise"
	in.SecretariatID = ptr("4")

	_, err := svc.Create(context.Background(), NewSession(1), in)
	require.NoError(t, err)
	require.Equal(t, "Em análise", r.created[0].Status)
	require.NotNil(t, r.created[0].SecretariatID)
	require.EqualValues(t, 4, *r.created[0].SecretariatID)
}

func TestCreateSanitizesText(t *testing.T) {
	r := &stubDemandRepo{}
	svc := NewDemandService(r, nil)
	in := validCreate()
	in.Description = "  <b>buraco</b> "

	_, err := svc.Create(context.Background(), NewSession(1), in)
	require.NoError(t, err)
	require.Equal(t, "&lt;b&gt;buraco&lt;/b&gt;", r.created[0].Description)
}

func TestCreateStorageFailureIsLoggedAndGeneric(t *testing.T) {
	var buf bytes.Buffer
	r := &stubDemandRepo{err: errors.New("connection reset by peer")}
	svc := NewDemandService(r, logging.NewErrorLogWriter(&buf))

	_, err := svc.Create(context.Background(), NewSession(1), validCreate())
	require.ErrorIs(t, err, ErrStorage)
	require.Equal(t, msgCreateStorage, Message(err))
	require.NotContains(t, Message(err), "connection reset")
	require.Contains(t, buf.String(), "connection reset by peer")
}

func TestListReturnsEmptySlice(t *testing.T) {
	svc := NewDemandService(&stubDemandRepo{}, nil)
	demands, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, demands)
	require.Empty(t, demands)
}

func TestListStorageFailure(t *testing.T) {
	svc := NewDemandService(&stubDemandRepo{err: errors.New("boom")}, nil)
	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, ErrStorage)
}

func TestUpdateRequiresSession(t *testing.T) {
	r := &stubDemandRepo{}
	svc := NewDemandService(r, nil)
	err := svc.Update(context.Background(), Anonymous(), UpdateDemandInput{DemandID: "1", Status: "Resolvida"})
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Empty(t, r.patches)
}

func TestUpdateValidation(t *testing.T) {
	tests := []struct {
		name string
		in   UpdateDemandInput
		msg  string
	}{
		{"missing id", UpdateDemandInput{Status: "Resolvida"}, msgDemandIDMissing},
		{"non numeric id", UpdateDemandInput{DemandID: "abc", Status: "Resolvida"}, msgDemandIDInvalid},
		{"nothing to update", UpdateDemandInput{DemandID: "1"}, msgNothingToUpdate},
		{"blank status only", UpdateDemandInput{DemandID: "1", Status: "  "}, msgNothingToUpdate},
		{"invalid secretariat", UpdateDemandInput{DemandID: "1", SecretariatID: ptr("obras")}, msgSecretariatInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &stubDemandRepo{}
			svc := NewDemandService(r, nil)
			err := svc.Update(context.Background(), NewSession(1), tc.in)
			require.ErrorIs(t, err, ErrInvalidInput)
			require.Equal(t, tc.msg, Message(err))
			require.Empty(t, r.patches)
		})
	}
}

func TestUpdateSecretariatTriState(t *testing.T) {
	five := int64(5)
	start := func() *stubDemandRepo {
		return &stubDemandRepo{demands: []repo.Demand{{ID: 1, Status: "Nova", SecretariatID: &five}}}
	}

	t.Run("empty string clears", func(t *testing.T) {
		r := start()
		err := NewDemandService(r, nil).Update(context.Background(), NewSession(1), UpdateDemandInput{DemandID: "1", SecretariatID: ptr("")})
		require.NoError(t, err)
		require.Nil(t, r.demands[0].SecretariatID)
		require.Equal(t, repo.SecretariatClear, r.patches[0].Secretariat)
	})

	t.Run("zero clears", func(t *testing.T) {
		r := start()
		err := NewDemandService(r, nil).Update(context.Background(), NewSession(1), UpdateDemandInput{DemandID: "1", SecretariatID: ptr("0")})
		require.NoError(t, err)
		require.Nil(t, r.demands[0].SecretariatID)
	})

	t.Run("numeric assigns", func(t *testing.T) {
		r := &stubDemandRepo{demands: []repo.Demand{{ID: 1, Status: "Nova"}}}
		err := NewDemandService(r, nil).Update(context.Background(), NewSession(1), UpdateDemandInput{DemandID: "1", SecretariatID: ptr("5")})
		require.NoError(t, err)
		require.NotNil(t, r.demands[0].SecretariatID)
		require.EqualValues(t, 5, *r.demands[0].SecretariatID)
		require.Nil(t, r.patches[0].Status)
	})

	t.Run("omitted keeps", func(t *testing.T) {
		r := start()
		err := NewDemandService(r, nil).Update(context.Background(), NewSession(1), UpdateDemandInput{DemandID: "1", Status: "Resolvida"})
		require.NoError(t, err)
		require.Equal(t, "Resolvida", r.demands[0].Status)
		require.Equal(t, repo.SecretariatKeep, r.patches[0].Secretariat)
		require.EqualValues(t, 5, *r.demands[0].SecretariatID)
	})
}

// Comportamento mantido: id inexistente e demanda de outro usuário não são checados.
func TestUpdateUnknownDemandStillSucceeds(t *testing.T) {
	r := &stubDemandRepo{}
	err := NewDemandService(r, nil).Update(context.Background(), NewSession(77), UpdateDemandInput{DemandID: "404", Status: "Resolvida"})
	require.NoError(t, err)
	require.Equal(t, []int64{404}, r.patchIDs)
}

func TestUpdateStorageFailure(t *testing.T) {
	r := &stubDemandRepo{err: errors.New("deadlock detected")}
	err := NewDemandService(r, nil).Update(context.Background(), NewSession(1), UpdateDemandInput{DemandID: "1", Status: "Resolvida"})
	require.ErrorIs(t, err, ErrStorage)
	require.Equal(t, msgUpdateStorage, Message(err))
}

func TestDemandLifecycle(t *testing.T) {
	ctx := context.Background()
	r := &stubDemandRepo{}
	svc := NewDemandService(r, nil)
	sess := NewSession(1)

	id, err := svc.Create(ctx, sess, validCreate())
	require.NoError(t, err)

	demands, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, demands, 1)
	require.Equal(t, "Nova", demands[0].Status)

	require.NoError(t, svc.Update(ctx, sess, UpdateDemandInput{DemandID: "1", Status: "Resolvida"}))

	demands, err = svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, id, demands[0].ID)
	require.Equal(t, "Resolvida", demands[0].Status)
}
