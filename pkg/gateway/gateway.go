package gateway

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Gateway is the single authenticated access point to Google Sheets and
// Google Drive. Both service handles are built lazily on first use and then
// reused for the lifetime of the process; initialization is idempotent with a
// single winner under concurrent first use.
type Gateway struct {
	credentialsFile string
	spreadsheetName string
	folderID        string

	sheetsOnce    sync.Once
	sheetsSvc     *sheets.Service
	spreadsheetID string
	firstSheet    string
	sheetsErr     error

	driveOnce sync.Once
	driveSvc  *drive.Service
	driveErr  error
}

// NewGateway creates a new gateway bound to one spreadsheet (by display name)
// and one optional Drive destination folder.
func NewGateway(credentialsFile, spreadsheetName, folderID string) *Gateway {
	return &Gateway{
		credentialsFile: credentialsFile,
		spreadsheetName: spreadsheetName,
		folderID:        folderID,
	}
}

// authOption reads the service account key and returns a client option
// authorized for the given scopes.
func (g *Gateway) authOption(scopes ...string) (option.ClientOption, error) {
	data, err := os.ReadFile(g.credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrServiceAuth, g.credentialsFile, err)
	}
	conf, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing service account key: %v", ErrServiceAuth, err)
	}
	// Process-lifetime client, so the token source is not tied to any
	// single request context.
	return option.WithHTTPClient(conf.Client(context.Background())), nil
}

// blobStore returns the memoized Drive client.
func (g *Gateway) blobStore(ctx context.Context) (*drive.Service, error) {
	g.driveOnce.Do(func() {
		auth, err := g.authOption(drive.DriveScope)
		if err != nil {
			g.driveErr = err
			return
		}
		svc, err := drive.NewService(ctx, auth)
		if err != nil {
			g.driveErr = fmt.Errorf("%w: %v", ErrServiceAuth, err)
			return
		}
		g.driveSvc = svc
	})
	return g.driveSvc, g.driveErr
}

// rowStore initializes the memoized Sheets client and resolves the configured
// spreadsheet name to an id and its first sheet title.
func (g *Gateway) rowStore(ctx context.Context) error {
	g.sheetsOnce.Do(func() {
		g.sheetsErr = g.initRowStore(ctx)
	})
	return g.sheetsErr
}

func (g *Gateway) initRowStore(ctx context.Context) error {
	auth, err := g.authOption(sheets.SpreadsheetsScope)
	if err != nil {
		return err
	}
	svc, err := sheets.NewService(ctx, auth)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceAuth, err)
	}

	id, err := g.findSpreadsheet(ctx)
	if err != nil {
		return err
	}

	meta, err := svc.Spreadsheets.Get(id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: spreadsheet %q: %v", ErrServiceNotFound, g.spreadsheetName, err)
	}
	if len(meta.Sheets) == 0 {
		return fmt.Errorf("%w: spreadsheet %q has no sheets", ErrServiceNotFound, g.spreadsheetName)
	}

	g.sheetsSvc = svc
	g.spreadsheetID = id
	g.firstSheet = meta.Sheets[0].Properties.Title
	return nil
}

// findSpreadsheet resolves the spreadsheet display name through a Drive name
// query. Rows always target the first sheet of the first match.
func (g *Gateway) findSpreadsheet(ctx context.Context) (string, error) {
	svc, err := g.blobStore(ctx)
	if err != nil {
		return "", err
	}
	q := fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		escapeQuery(g.spreadsheetName))
	list, err := svc.Files.List().Q(q).PageSize(1).Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: searching for spreadsheet %q: %v", ErrServiceNotFound, g.spreadsheetName, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: spreadsheet %q", ErrServiceNotFound, g.spreadsheetName)
	}
	return list.Files[0].Id, nil
}

// CheckRowStore forces row-store initialization. Used as a startup probe.
func (g *Gateway) CheckRowStore(ctx context.Context) error {
	return g.rowStore(ctx)
}

// CheckFolder verifies the configured Drive destination folder exists. It is
// a no-op when no folder is configured.
func (g *Gateway) CheckFolder(ctx context.Context) error {
	if g.folderID == "" {
		return nil
	}
	svc, err := g.blobStore(ctx)
	if err != nil {
		return err
	}
	if _, err := svc.Files.Get(g.folderID).Fields("id").Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: drive folder %s: %v", ErrServiceNotFound, g.folderID, err)
	}
	return nil
}

// UploadAndPublish uploads the file at localPath to Drive under desiredName,
// grants anyone-with-link read access and returns the shareable link. The
// caller owns cleanup of the local file regardless of outcome.
func (g *Gateway) UploadAndPublish(ctx context.Context, localPath, desiredName string) (string, error) {
	svc, err := g.blobStore(ctx)
	if err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", ErrUpload, localPath, err)
	}
	defer f.Close()

	meta := &drive.File{Name: desiredName}
	if g.folderID != "" {
		meta.Parents = []string{g.folderID}
	}
	created, err := svc.Files.Create(meta).
		Media(f, googleapi.ContentType("image/jpeg")).
		Fields("id", "webViewLink").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", ErrUpload, desiredName, err)
	}

	perm := &drive.Permission{Type: "anyone", Role: "reader"}
	if _, err := svc.Permissions.Create(created.Id, perm).Fields("id").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("%w: granting access to %s: %v", ErrUpload, desiredName, err)
	}

	if created.WebViewLink != "" {
		return created.WebViewLink, nil
	}
	return viewerURL(created.Id), nil
}

// AppendRow appends one row to the bound sheet, argument order = column order.
func (g *Gateway) AppendRow(ctx context.Context, values []interface{}) error {
	if err := g.rowStore(ctx); err != nil {
		return err
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{values}}
	// Sheet titles may contain spaces, so the A1 range needs quoting.
	rng := fmt.Sprintf("'%s'", strings.ReplaceAll(g.firstSheet, "'", "''"))
	_, err := g.sheetsSvc.Spreadsheets.Values.Append(g.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// viewerURL builds the viewer link for a Drive file id. Used when the API
// response omits webViewLink.
func viewerURL(id string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", id)
}

// escapeQuery escapes single quotes for a Drive query literal.
func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
