package workspace

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/diag"
	"github.com/dhamidi/grove/groovy/position"
	"github.com/spf13/afero"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "grove"

// Server is a language server that reports the diagnostics of Groovy
// documents as they are opened and edited.
type Server struct {
	fs      afero.Fs
	opts    []groovy.Option
	version string

	ws      *Workspace
	handler protocol.Handler
	server  *server.Server
}

func NewServer(fs afero.Fs, version string, opts ...groovy.Option) *Server {
	s := &Server{
		fs:      fs,
		opts:    opts,
		version: version,
		ws:      New(fs, ".", opts...),
	}

	s.handler = protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.textDocumentDidOpen,
		TextDocumentDidChange:      s.textDocumentDidChange,
		TextDocumentDidClose:       s.textDocumentDidClose,
		TextDocumentDidSave:        s.textDocumentDidSave,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) Workspace() *Workspace {
	return s.ws
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	s.ws = New(s.fs, rootDir, s.opts...)

	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	logger().Infof("serving %s", s.ws.Root())
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.update(ctx, params.TextDocument.URI, []byte(whole.Text))
	}
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	if params.Text != nil {
		s.update(ctx, uri, []byte(*params.Text))
		return nil
	}
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	u, err := s.ws.ScanFile(context.Background(), path)
	if err != nil {
		logger().Warningf("rescan %s: %s", path, err)
		return nil
	}
	s.publish(ctx, uri, u)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	if path, err := uriToPath(uri); err == nil {
		s.ws.Remove(path)
	}
	s.publish(ctx, uri, nil)
	return nil
}

func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, content []byte) {
	path, err := uriToPath(uri)
	if err != nil {
		return
	}
	u := s.ws.Update(context.Background(), path, content)
	s.publish(ctx, uri, u)
}

// publish sends the diagnostics of u, or clears them when u is nil.
func (s *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, u *Unit) {
	diagnostics := []protocol.Diagnostic{}
	if u != nil {
		for _, d := range u.Diagnostics {
			diagnostics = append(diagnostics, toProtocolDiagnostic(d))
		}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (s *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	u := s.ws.Unit(path)
	if u == nil || u.Result == nil {
		return nil, nil
	}
	return documentSymbols(u.Result.Module, position.New(u.Content)), nil
}

func documentSymbols(mod *ast.Module, index *position.Index) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	for _, c := range mod.Classes {
		if c.Outer != nil || c.Anonymous || !c.IsSet() {
			continue
		}
		symbols = append(symbols, classSymbol(c, index))
	}
	for _, m := range mod.Methods {
		symbols = append(symbols, memberSymbol(m.Name, protocol.SymbolKindFunction, m, index))
	}
	return symbols
}

func classSymbol(c *ast.ClassNode, index *position.Index) protocol.DocumentSymbol {
	kind := protocol.SymbolKindClass
	switch c.Kind {
	case ast.ClassKindInterface, ast.ClassKindTrait, ast.ClassKindAnnotation:
		kind = protocol.SymbolKindInterface
	case ast.ClassKindEnum:
		kind = protocol.SymbolKindEnum
	}
	sym := memberSymbol(c.SimpleName(), kind, c, index)

	for _, p := range c.Properties {
		sym.Children = append(sym.Children, memberSymbol(p.Name, protocol.SymbolKindProperty, p, index))
	}
	for _, f := range c.Fields {
		if f.Synthetic || !f.IsSet() {
			continue
		}
		kind := protocol.SymbolKindField
		if f.EnumConstant {
			kind = protocol.SymbolKindEnumMember
		}
		sym.Children = append(sym.Children, memberSymbol(f.Name, kind, f, index))
	}
	for _, m := range c.Constructors {
		if m.IsSet() {
			sym.Children = append(sym.Children, memberSymbol(c.SimpleName(), protocol.SymbolKindConstructor, m, index))
		}
	}
	for _, m := range c.Methods {
		if m.IsSet() {
			sym.Children = append(sym.Children, memberSymbol(m.Name, protocol.SymbolKindMethod, m, index))
		}
	}
	for _, inner := range c.Inner {
		if !inner.Anonymous && inner.IsSet() {
			sym.Children = append(sym.Children, classSymbol(inner, index))
		}
	}
	return sym
}

func memberSymbol(name string, kind protocol.SymbolKind, n ast.Named, index *position.Index) protocol.DocumentSymbol {
	pos := n.Position()
	start, end := n.NameRange()
	return protocol.DocumentSymbol{
		Name:           name,
		Kind:           kind,
		Range:          offsetRange(index, pos.Start, pos.End),
		SelectionRange: offsetRange(index, start, end+1),
	}
}

// offsetRange converts byte offsets to a protocol range. Characters are
// counted in bytes, matching the diagnostics.
func offsetRange(index *position.Index, start, end int) protocol.Range {
	sl, sc := index.RowCol(start)
	el, ec := index.RowCol(end)
	return protocol.Range{
		Start: protocol.Position{Line: uinteger(sl - 1), Character: uinteger(sc - 1)},
		End:   protocol.Position{Line: uinteger(el - 1), Character: uinteger(ec - 1)},
	}
}

func toProtocolDiagnostic(d diag.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: toProtocolPosition(d.Range.Start),
			End:   toProtocolPosition(d.Range.End),
		},
		Severity: &severity,
		Source:   &source,
		Message:  d.Message,
	}
}

func toProtocolPosition(p diag.Point) protocol.Position {
	return protocol.Position{Line: uinteger(p.Line - 1), Character: uinteger(p.Column - 1)}
}

func uinteger(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n)
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
