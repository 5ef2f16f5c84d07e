package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"lotoqueue/internal/services"
)

// ValueInputOption makes the store parse written values as if typed by a user.
const ValueInputOption = "USER_ENTERED"

var scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive.readonly",
}

// Service wraps the Sheets API client shared by every tab a run opens.
type Service struct {
	api *gsheets.Service
}

// NewService authenticates with a service-account JSON key. Extra options
// are appended, which lets tests point the client at a local server.
func NewService(ctx context.Context, serviceJSON string, opts ...option.ClientOption) (*Service, error) {
	if strings.TrimSpace(serviceJSON) == "" && len(opts) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "sheets", "auth", "GOOGLE_SERVICE_JSON is empty", nil)
	}
	clientOpts := make([]option.ClientOption, 0, len(opts)+1)
	if strings.TrimSpace(serviceJSON) != "" {
		creds, err := google.CredentialsFromJSON(ctx, []byte(serviceJSON), scopes...)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "sheets", "auth", "parse service account", err)
		}
		clientOpts = append(clientOpts, option.WithCredentials(creds))
	}
	clientOpts = append(clientOpts, opts...)
	api, err := gsheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "sheets", "client", "create sheets client", err)
	}
	return &Service{api: api}, nil
}

// OpenTab returns a handle to the named tab, failing when it does not exist.
func (s *Service) OpenTab(ctx context.Context, sheetID, title string) (Tab, error) {
	resp, err := s.api.Spreadsheets.Get(sheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, classify("open", sheetID, err)
	}
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return &googleTab{api: s.api, sheetID: sheetID, title: title}, nil
		}
	}
	return nil, services.Wrap(services.ErrNotFound, "sheets", "open", fmt.Sprintf("tab %q not found in %s", title, sheetID), nil)
}

type googleTab struct {
	api     *gsheets.Service
	sheetID string
	title   string
}

func (t *googleTab) Title() string { return t.title }

func (t *googleTab) Values(ctx context.Context) ([][]string, error) {
	resp, err := t.api.Spreadsheets.Values.Get(t.sheetID, TabRange(t.title, "")).Context(ctx).Do()
	if err != nil {
		return nil, classify("read", t.title, err)
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		out[i] = cells
	}
	return out, nil
}

func (t *googleTab) UpdateRange(ctx context.Context, ref string, values [][]string) error {
	body := &gsheets.ValueRange{Values: toInterfaces(values)}
	_, err := t.api.Spreadsheets.Values.Update(t.sheetID, TabRange(t.title, ref), body).
		ValueInputOption(ValueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return classify("update", ref, err)
	}
	return nil
}

func (t *googleTab) BatchUpdate(ctx context.Context, updates []CellUpdate) error {
	data := make([]*gsheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &gsheets.ValueRange{
			Range:  TabRange(t.title, u.Cell),
			Values: [][]interface{}{{u.Value}},
		})
	}
	req := &gsheets.BatchUpdateValuesRequest{ValueInputOption: ValueInputOption, Data: data}
	if _, err := t.api.Spreadsheets.Values.BatchUpdate(t.sheetID, req).Context(ctx).Do(); err != nil {
		return classify("batch_update", t.title, err)
	}
	return nil
}

func toInterfaces(values [][]string) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, row := range values {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}

func classify(operation, subject string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return services.Wrap(services.ErrNotFound, "sheets", operation, subject, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return services.Wrap(services.ErrConfiguration, "sheets", operation, subject, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "sheets", operation, subject, err)
	}
	return services.Wrap(services.ErrTransport, "sheets", operation, subject, err)
}
