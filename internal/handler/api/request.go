package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/fhuszti/movies-ms-go/internal/model"
	"github.com/fhuszti/movies-ms-go/internal/port"
	"github.com/gabriel-vasile/mimetype"
)

// Keys accepted for the display title, in order of precedence.
var titleAliases = []string{model.FieldPrimaryTitle, "titulo", "title"}

// multipart field carrying the JSON document when files are attached
const dataField = "data"

// movieRequest is the validated view of a create body.
type movieRequest struct {
	PrimaryTitle string `json:"primaryTitle" validate:"required,notblank,max=255"`
	Year         *int   `json:"year" validate:"omitempty,min=1800,max=3000"`
}

// moviePatchRequest is the validated view of an update body.
type moviePatchRequest struct {
	PrimaryTitle string `json:"primaryTitle" validate:"omitempty,max=255"`
	Year         *int   `json:"year" validate:"omitempty,min=1800,max=3000"`
}

// movieForm is a decoded create or update request. Close must be called once
// the attached files are no longer needed.
type movieForm struct {
	Input  port.MovieInput
	Assets port.Assets
	files  []multipart.File
}

func (f *movieForm) Close() {
	for _, file := range f.files {
		_ = file.Close()
	}
}

// parseMovieForm reads a JSON body or a multipart form with optional image and
// video parts. The whole body is capped at maxBytes.
func parseMovieForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*movieForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		raw, err := decodeJSONObject(r.Body)
		if err != nil {
			return nil, err
		}
		in, err := movieInputFromFields(raw)
		if err != nil {
			return nil, err
		}
		return &movieForm{Input: in}, nil
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, err
	}

	raw := map[string]any{}
	if data := r.FormValue(dataField); data != "" {
		decoded, err := decodeJSONObject(strings.NewReader(data))
		if err != nil {
			return nil, err
		}
		raw = decoded
	} else {
		for k, vals := range r.MultipartForm.Value {
			if len(vals) > 0 {
				raw[k] = vals[0]
			}
		}
	}
	in, err := movieInputFromFields(raw)
	if err != nil {
		return nil, err
	}

	form := &movieForm{Input: in}
	for _, role := range []port.AssetRole{port.RoleImage, port.RoleVideo} {
		upload, file, err := formFile(r, string(role))
		if err != nil {
			form.Close()
			return nil, err
		}
		if upload == nil {
			continue
		}
		form.files = append(form.files, file)
		switch role {
		case port.RoleImage:
			form.Assets.Image = upload
		case port.RoleVideo:
			form.Assets.Video = upload
		}
	}
	return form, nil
}

// formFile opens the named part and sniffs its content type from the bytes.
// A missing part yields nil without error.
func formFile(r *http.Request, field string) (*port.AssetUpload, multipart.File, error) {
	file, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not read %s: %w", field, err)
	}

	mt, err := mimetype.DetectReader(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("could not detect content type of %s: %w", field, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("could not rewind %s: %w", field, err)
	}

	return &port.AssetUpload{
		FileName:    hdr.Filename,
		ContentType: baseMimeType(mt.String()),
		SizeBytes:   hdr.Size,
		Body:        file,
	}, file, nil
}

func baseMimeType(mt string) string {
	return strings.TrimSpace(strings.SplitN(mt, ";", 2)[0])
}

func decodeJSONObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON object")
	}
	if raw == nil {
		return nil, errors.New("expected a JSON object")
	}
	return raw, nil
}

// movieInputFromFields splits a request document into the title, the year and
// the pass-through fields. Service-owned keys are dropped.
func movieInputFromFields(raw map[string]any) (port.MovieInput, error) {
	in := port.MovieInput{Fields: map[string]any{}}
	titleSet := false
	for _, key := range titleAliases {
		v, ok := raw[key]
		if !ok {
			continue
		}
		s, isString := v.(string)
		if !isString {
			return port.MovieInput{}, fmt.Errorf("%s must be a string", key)
		}
		if !titleSet {
			in.PrimaryTitle = s
			titleSet = true
		}
	}

	for k, v := range raw {
		switch k {
		case model.FieldPrimaryTitle, "titulo", "title",
			model.FieldID, model.FieldNormalizedTitle, model.FieldImageURL, model.FieldVideoURL,
			model.FieldAssetNamespace:
		case model.FieldYear:
			if v == nil {
				continue
			}
			y, ok := model.ToInt(v)
			if !ok {
				return port.MovieInput{}, errors.New("year must be an integer")
			}
			in.Year = &y
		default:
			if !model.IsStorableKey(k) {
				return port.MovieInput{}, fmt.Errorf("field name %q is not allowed", k)
			}
			in.Fields[k] = v
		}
	}
	return in, nil
}

// isTooLarge reports whether err comes from the body size cap.
func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

