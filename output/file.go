package output

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
)

var reIndexSuffix = regexp.MustCompile(`\.(\d+)$`)

// progressInterval limits how often the progress line is redrawn.
const progressInterval = 200 * time.Millisecond

type FileWriter struct {
	fullPath string
	progress io.Writer
}

// NewFileWriter decides where a download goes. Progress lines are written
// to progress, which may be nil.
func NewFileWriter(u *url.URL, options *Options, progress io.Writer) *FileWriter {
	var fullPath string
	if options.OutputFile == "" {
		fullPath = "./" + filenameFromURL(u)
	} else {
		fullPath = options.OutputFile
	}
	if !options.Overwrite {
		fullPath = makeNonOverlappingFilename(fullPath)
	}
	if progress == nil {
		progress = io.Discard
	}
	return &FileWriter{
		fullPath: fullPath,
		progress: progress,
	}
}

func filenameFromURL(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		return "index"
	}
	return name
}

func makeNonOverlappingFilename(path string) string {
	_, err := os.Stat(path)
	if err == nil {
		newPath := reIndexSuffix.ReplaceAllStringFunc(path, func(index string) string {
			i, err := strconv.Atoi(strings.TrimPrefix(index, "."))
			if err != nil {
				panic(err)
			}
			i++
			return fmt.Sprintf(".%d", i)
		})
		if path == newPath {
			path = fmt.Sprintf("%s.%d", path, 1)
		} else {
			path = newPath
		}
		path = makeNonOverlappingFilename(path)
	}
	return path
}

// Download copies body into the file as it arrives and reports the running
// size. It returns the number of bytes written.
func (f *FileWriter) Download(body io.Reader) (int64, error) {
	file, err := os.Create(f.fullPath)
	if err != nil {
		return 0, errors.Wrap(err, "creating download file")
	}
	defer file.Close()

	buf := make([]byte, 32*1024)
	var total int64
	last := time.Now()
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				return total, errors.Wrap(err, "writing download file")
			}
			total += int64(n)
			if time.Since(last) >= progressInterval {
				fmt.Fprintf(f.progress, "\rDownloading %s: %s", f.Filename(), bytefmt.ByteSize(uint64(total)))
				last = time.Now()
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return total, readErr
		}
	}
	fmt.Fprintf(f.progress, "\rDownloaded %s to %s\n", bytefmt.ByteSize(uint64(total)), f.fullPath)
	return total, nil
}

func (f *FileWriter) Filename() string {
	return filepath.Base(f.fullPath)
}

func (f *FileWriter) Path() string {
	return f.fullPath
}
