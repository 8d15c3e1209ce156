package codegen

import (
	"go.uber.org/zap"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/output"
	"github.com/teranos/apigen/source"
)

// Context is what a provider receives for one run.
//
// Input is a private deep copy of everything merged so far; changing it
// has no effect on the run. State is fresh for every provider.
// Declarations is shared by all providers of the run, so a provider can
// reference symbols an earlier one declared.
type Context struct {
	RunID        string
	Data         *api.Data
	Input        Output
	Config       Config
	State        map[string]any
	Declarations *source.Declarations
	Output       *output.Dir
	Logger       *zap.SugaredLogger
}

// NewFileSet returns a file set bound to the run's declarations.
func (c *Context) NewFileSet(indent string) *source.FileSet {
	return source.NewFileSet(c.Declarations, indent)
}

// WriteFiles writes files into the output directory.
func (c *Context) WriteFiles(files []source.File) error {
	for _, f := range files {
		if err := c.Output.WriteFile(f.Path, []byte(f.Content)); err != nil {
			return err
		}
	}
	return nil
}
