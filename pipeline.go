package photoframe

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
)

func hashFile(f io.ReadSeeker) (string, error) {
	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

func (c *Converter) settings() string {
	return fmt.Sprintf("%v/%v", c.Config, c.Format)
}

func (c *Converter) convert(file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sha string
	if c.cache != nil {
		if sha, err = hashFile(f); err != nil {
			return nil, err
		}

		b, err := c.cache.Get(sha, c.settings())
		if err != nil {
			return nil, err
		}
		if b != nil {
			c.logger.Printf("Using cached conversion of %s\n", file)
			return b, nil
		}
	}

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	pm, err := Convert(m, c.Config)
	if err != nil {
		return nil, err
	}

	b := new(bytes.Buffer)
	if err := c.Format.Encode(b, pm); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(sha, c.settings(), b.Bytes()); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// ConvertFile converts a single image file and writes the result alongside
// it, returning the path of the new file.
func (c *Converter) ConvertFile(file string) (string, error) {
	b, err := c.convert(file)
	if err != nil {
		return "", err
	}

	output := c.Format.OutputPath(file)
	if err := os.WriteFile(output, b, 0o644); err != nil {
		return "", err
	}

	return output, nil
}

func (c *Converter) findFiles(ctx context.Context, dir string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)

		entries, err := os.ReadDir(dir)
		if err != nil {
			errc <- err
			return
		}

		// Entries are sorted by name, so of photo.jpg and photo.png the
		// former is the one that gets converted to photo.bmp
		outputs := make(map[string]string)

		for _, entry := range entries {
			// Only regular files directly within the directory, hidden
			// files are ignored
			if !entry.Type().IsRegular() || !IsSource(entry.Name()) {
				continue
			}

			file := filepath.Join(dir, entry.Name())
			output := c.Format.OutputPath(file)
			if first, ok := outputs[output]; ok {
				c.logger.Printf("Skipping %s, %s already converts to %s\n", file, first, output)
				continue
			}
			outputs[output] = file

			select {
			case out <- file:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc
}

func (c *Converter) fileWorker(ctx context.Context, in <-chan string) <-chan error {
	errc := make(chan error)
	go func() {
		defer close(errc)
		for file := range in {
			c.logger.Printf("Processing file %s\n", filepath.Base(file))

			output, err := c.ConvertFile(file)
			if err != nil {
				c.logger.Printf("Failed to convert %s: %v\n", file, err)
				select {
				case errc <- fmt.Errorf("%s: %w", file, err):
				case <-ctx.Done():
					return
				}
				continue
			}

			c.logger.Printf("Successfully converted %s to %s\n", file, output)
		}
	}()
	return errc
}

// waitForPipeline drains every error channel, a failed image does not stop
// the others.
func waitForPipeline(errs ...<-chan error) error {
	var all []error
	for err := range mergeErrors(errs...) {
		if err != nil {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan converts every image directly within dir using c.Workers concurrent
// workers. Every eligible file is attempted; the returned error joins the
// failures of individual images.
func (c *Converter) Scan(ctx context.Context, path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc := c.findFiles(ctx, dir)
	errcList = append(errcList, errc)

	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		errcList = append(errcList, c.fileWorker(ctx, files))
	}

	return waitForPipeline(errcList...)
}

// Run converts path, which is either a single image file or a directory of
// images.
func (c *Converter) Run(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		c.logger.Printf("Processing folder %s\n", path)
		return c.Scan(ctx, path)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: not a regular file", path)
	}

	file, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	c.logger.Printf("Processing file %s\n", path)
	output, err := c.ConvertFile(file)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	c.logger.Printf("Successfully converted %s to %s\n", file, output)

	return nil
}
