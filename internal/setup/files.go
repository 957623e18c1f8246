package setup

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/OFFIS-RIT/kgraph/internal/util"
	"github.com/OFFIS-RIT/kgraph/pkg/loader"
	"github.com/OFFIS-RIT/kgraph/pkg/loader/doc"
	"github.com/OFFIS-RIT/kgraph/pkg/loader/io"
	"github.com/OFFIS-RIT/kgraph/pkg/loader/s3"
	"github.com/OFFIS-RIT/kgraph/pkg/loader/web"
)

// FileResolver picks a loader for a document path: http(s) URLs go through
// the web loader, s3:// paths through the S3 loader and everything else is
// read from disk. .docx files are converted to text on top of that.
type FileResolver struct {
	io  *io.IOGraphFileLoader
	web *web.WebGraphLoader

	newS3 func(ctx context.Context) (loader.DocumentLoader, error)
	s3    loader.DocumentLoader
}

// NewFileResolver creates a resolver. The S3 loader is configured from the
// AWS_* environment on first use.
func NewFileResolver() *FileResolver {
	return &FileResolver{
		io:  io.NewIOGraphFileLoader(),
		web: web.NewWebGraphLoader(),
		newS3: func(ctx context.Context) (loader.DocumentLoader, error) {
			return s3.NewS3GraphFileLoader(ctx, s3.NewS3GraphFileLoaderParams{
				Bucket:    util.GetEnv("AWS_BUCKET"),
				Endpoint:  util.GetEnv("AWS_ENDPOINT"),
				Region:    util.GetEnvString("AWS_REGION", "us-east-1"),
				AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
				SecretKey: util.GetEnv("AWS_SECRET_KEY"),
			})
		},
	}
}

// Resolve returns one DocumentFile per path, in order.
func (r *FileResolver) Resolve(ctx context.Context, paths []string, language string) ([]loader.DocumentFile, error) {
	files := make([]loader.DocumentFile, 0, len(paths))
	for _, path := range paths {
		l, err := r.loaderFor(ctx, path)
		if err != nil {
			return nil, err
		}
		files = append(files, loader.NewDocumentFile(loader.NewDocumentFileParams{
			FilePath: path,
			Language: language,
			Loader:   l,
		}))
	}
	return files, nil
}

func (r *FileResolver) loaderFor(ctx context.Context, path string) (loader.DocumentLoader, error) {
	var base loader.DocumentLoader
	switch {
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		base = r.web
	case strings.HasPrefix(path, s3.Scheme):
		if r.s3 == nil {
			l, err := r.newS3(ctx)
			if err != nil {
				return nil, err
			}
			r.s3 = l
		}
		base = r.s3
	default:
		base = r.io
	}

	if strings.EqualFold(filepath.Ext(path), ".docx") {
		return doc.NewDocGraphLoader(base), nil
	}
	return base, nil
}
