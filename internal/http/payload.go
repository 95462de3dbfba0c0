package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidJSON = errors.New("json inválido")
	errInvalidForm = errors.New("formulário inválido")
)

func badBodyMessage(err error) string {
	if errors.Is(err, errInvalidForm) {
		return "Formulário inválido."
	}
	return "Formato JSON inválido."
}

// payload guarda os campos do corpo como texto. Campo ausente ou null é nil.
type payload map[string]*string

func (p payload) str(key string) string {
	if v := p[key]; v != nil {
		return *v
	}
	return ""
}

func (p payload) opt(key string) *string {
	return p[key]
}

// decodePayload lê JSON quando o Content-Type é application/json e formulário
// (urlencoded ou multipart) nos demais casos.
func decodePayload(w http.ResponseWriter, r *http.Request) (payload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return decodeJSON(r.Body)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, errInvalidForm
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, errInvalidForm
		}
	}

	p := make(payload, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			v := values[0]
			p[key] = &v
		}
	}
	return p, nil
}

func decodeJSON(body io.Reader) (payload, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, errInvalidJSON
	}

	p := make(payload, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
		case string:
			p[key] = &v
		case json.Number:
			s := v.String()
			p[key] = &s
		case bool:
			s := strconv.FormatBool(v)
			p[key] = &s
		default:
			return nil, errInvalidJSON
		}
	}
	return p, nil
}
