package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wcastillo/catalogo-api/internal/application/usecase"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/pkg/config"
)

// Verificar en tiempo de compilación que Service implementa ImageStore.
var _ usecase.ImageStore = (*Service)(nil)

const baseURL = "https://api.cloudinary.com/v1_1"

// Service adaptador del host de imágenes usando la API REST de Cloudinary.
// Usa net/http de la librería estándar; no requiere SDK.
// Las peticiones van firmadas (SHA-1 de los parámetros ordenados + api_secret).
type Service struct {
	cfg        config.CloudinaryConfig
	httpClient *http.Client
	base       string // sobreescribible en tests
}

// New construye el adaptador. Si cfg.CloudName está vacío, Upload devuelve
// error descriptivo en lugar de panic (el catálogo puede operar sin imágenes).
func New(cfg config.CloudinaryConfig) *Service {
	return &Service{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		base:       baseURL,
	}
}

// uploadResponse respuesta relevante del endpoint upload/destroy.
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Result    string `json:"result"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sube una imagen a la carpeta configurada y devuelve URL + public_id.
func (s *Service) Upload(ctx context.Context, file io.Reader, filename string) (entity.Image, error) {
	if s.cfg.CloudName == "" {
		return entity.Image{}, fmt.Errorf("cloudinary: sin configurar (CLOUDINARY_CLOUD_NAME vacío)")
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"folder":    s.cfg.Folder,
		"timestamp": timestamp,
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return entity.Image{}, fmt.Errorf("cloudinary: preparar multipart: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return entity.Image{}, fmt.Errorf("cloudinary: copiar archivo: %w", err)
	}
	for k, v := range params {
		_ = w.WriteField(k, v)
	}
	_ = w.WriteField("api_key", s.cfg.APIKey)
	_ = w.WriteField("signature", s.sign(params))
	if err := w.Close(); err != nil {
		return entity.Image{}, fmt.Errorf("cloudinary: cerrar multipart: %w", err)
	}

	url := fmt.Sprintf("%s/%s/image/upload", s.base, s.cfg.CloudName)
	out, err := s.post(ctx, url, w.FormDataContentType(), &body)
	if err != nil {
		return entity.Image{}, err
	}
	return entity.Image{URL: out.SecureURL, PublicID: out.PublicID}, nil
}

// Destroy elimina un asset por su public_id.
func (s *Service) Destroy(ctx context.Context, publicID string) error {
	if s.cfg.CloudName == "" || publicID == "" {
		return nil
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	form := make([]string, 0, len(params)+2)
	for k, v := range params {
		form = append(form, k+"="+v)
	}
	form = append(form, "api_key="+s.cfg.APIKey, "signature="+s.sign(params))

	url := fmt.Sprintf("%s/%s/image/destroy", s.base, s.cfg.CloudName)
	out, err := s.post(ctx, url, "application/x-www-form-urlencoded", strings.NewReader(strings.Join(form, "&")))
	if err != nil {
		return err
	}
	// Cloudinary responde result "ok" o "not found"; un asset ya ausente no es error.
	if out.Result != "ok" && out.Result != "not found" {
		return fmt.Errorf("cloudinary: destroy %s: %s", publicID, out.Result)
	}
	return nil
}

func (s *Service) post(ctx context.Context, url, contentType string, body io.Reader) (*uploadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: crear request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: llamada HTTP: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: leer respuesta: %w", err)
	}
	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("cloudinary: respuesta inválida (HTTP %d)", resp.StatusCode)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("cloudinary: %s", out.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cloudinary: HTTP %d", resp.StatusCode)
	}
	return &out, nil
}

// sign firma los parámetros según el esquema de Cloudinary:
// SHA-1 hex de "k1=v1&k2=v2...<api_secret>" con las claves en orden alfabético.
func (s *Service) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + s.cfg.APISecret))
	return hex.EncodeToString(sum[:])
}
