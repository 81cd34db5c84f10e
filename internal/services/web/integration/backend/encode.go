package backend

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

const (
	dateLayout          = "2006-01-02"
	localDateTimeLayout = "2006-01-02T15:04:05"
)

func encodePersonForm(input PersonInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"username", strings.TrimSpace(input.Username)},
		{"password", input.Password},
		{"name", strings.TrimSpace(input.Name)},
		{"mailId", strings.TrimSpace(input.Email)},
		{"phoneNumber", strings.TrimSpace(input.Phone)},
		{"role", strings.ToUpper(strings.TrimSpace(input.Role))},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		if err := form.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("encode %s: %w", field.name, err)
		}
	}
	if photo := input.Photo; photo != nil && len(photo.Data) > 0 {
		header := make(textproto.MIMEHeader)
		filename := strings.ReplaceAll(photo.Filename, `"`, "")
		if filename == "" {
			filename = "photo"
		}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, filename))
		contentType := photo.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := form.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("encode photo: %w", err)
		}
		if _, err := part.Write(photo.Data); err != nil {
			return nil, "", fmt.Errorf("encode photo: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, "", fmt.Errorf("encode profile form: %w", err)
	}
	return &buf, form.FormDataContentType(), nil
}
