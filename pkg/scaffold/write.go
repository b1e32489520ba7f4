package scaffold

import (
	"os"
	"path/filepath"

	"github.com/portworx/dcosdev/pkg/storage/status"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	dirMode  os.FileMode = 0755
	fileMode os.FileMode = 0644
	execMode os.FileMode = 0755
)

type file struct {
	path string
	data []byte
	mode os.FileMode
}

// write creates all files, or none
func (s *Scaffolder) write(files []file) (err error) {
	for _, f := range files {
		exists, erx := afero.Exists(s.fs, f.path)
		if erx != nil {
			return erx
		}
		if exists {
			return status.ErrExists.Wrapf("%s", f.path)
		}
	}

	var created []string
	defer func() {
		if err != nil {
			err = multierr.Append(err, s.rollback(created))
		}
	}()

	for _, f := range files {
		dirs, erd := s.mkdirAll(filepath.Dir(f.path))
		created = append(created, dirs...)
		if erd != nil {
			return erd
		}
		opened, erc := s.create(f)
		if opened {
			created = append(created, f.path)
		}
		if erc != nil {
			return erc
		}
	}
	return nil
}

// mkdirAll creates missing directories top-down and returns those it created
func (s *Scaffolder) mkdirAll(dir string) ([]string, error) {
	var missing []string
	for d := dir; ; {
		if _, err := s.fs.Stat(d); err == nil {
			break
		} else if !os.IsNotExist(err) {
			return nil, err
		}
		missing = append(missing, d)
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	created := make([]string, 0, len(missing))
	for i := len(missing) - 1; i >= 0; i-- {
		if err := s.fs.Mkdir(missing[i], dirMode); err != nil {
			return created, err
		}
		created = append(created, missing[i])
	}
	return created, nil
}

// create reports whether the file was created, even when writing its content failed
func (s *Scaffolder) create(f file) (bool, error) {
	fh, err := s.fs.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, f.mode)
	if err != nil {
		if os.IsExist(err) {
			return false, status.ErrExists.Wrapf("%s", f.path)
		}
		return false, err
	}
	_, err = fh.Write(f.data)
	return true, multierr.Append(err, fh.Close())
}

// rollback removes created paths, most recent first
func (s *Scaffolder) rollback(created []string) error {
	var merr error
	for i := len(created) - 1; i >= 0; i-- {
		if err := s.fs.Remove(created[i]); err != nil && !os.IsNotExist(err) {
			merr = multierr.Append(merr, err)
			continue
		}
		s.logger.Debug("rolled back", zap.String("path", created[i]))
	}
	return merr
}
