package svcctl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreLoad(t *testing.T) {
	dir := t.TempDir()
	store := &Store{Dir: dir}

	write := func(service, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, service+".yaml"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("valid descriptor", func(t *testing.T) {
		write("webapp", "common:\n  x: 1\nconfigs:\n  prod: {}\nenv_prefix: APP\n")

		desc, err := store.Load("webapp")
		if err != nil {
			t.Fatal(err)
		}
		if desc.Service != "webapp" {
			t.Errorf("Service = %q, want webapp", desc.Service)
		}
		if desc.EnvPrefix != "APP" {
			t.Errorf("EnvPrefix = %q, want APP", desc.EnvPrefix)
		}
		if _, ok := desc.Configs.Get("prod"); !ok {
			t.Error("configs missing prod")
		}
	})

	t.Run("missing common is allowed", func(t *testing.T) {
		write("minimal", "configs:\n  prod: {}\n")

		desc, err := store.Load("minimal")
		if err != nil {
			t.Fatal(err)
		}
		if desc.Common.Len() != 0 {
			t.Errorf("Common.Len() = %d, want 0", desc.Common.Len())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := store.Load("nosuch")
		if !errors.Is(err, ErrDescriptorNotFound) {
			t.Errorf("err = %v, want ErrDescriptorNotFound", err)
		}
	})

	t.Run("unparseable document", func(t *testing.T) {
		write("broken", "configs: [unbalanced\n")

		_, err := store.Load("broken")
		if !errors.Is(err, ErrDescriptorInvalid) {
			t.Errorf("err = %v, want ErrDescriptorInvalid", err)
		}
	})

	t.Run("non-mapping document", func(t *testing.T) {
		write("scalar", "just a string\n")

		_, err := store.Load("scalar")
		if !errors.Is(err, ErrDescriptorInvalid) {
			t.Errorf("err = %v, want ErrDescriptorInvalid", err)
		}
	})

	t.Run("missing configs", func(t *testing.T) {
		write("noconfigs", "common:\n  x: 1\n")

		_, err := store.Load("noconfigs")
		if !errors.Is(err, ErrDescriptorInvalid) {
			t.Errorf("err = %v, want ErrDescriptorInvalid", err)
		}
	})

	t.Run("empty configs", func(t *testing.T) {
		write("emptyconfigs", "configs: {}\n")

		_, err := store.Load("emptyconfigs")
		if !errors.Is(err, ErrDescriptorInvalid) {
			t.Errorf("err = %v, want ErrDescriptorInvalid", err)
		}
	})

	t.Run("non-string env_prefix", func(t *testing.T) {
		write("badprefix", "configs:\n  prod: {}\nenv_prefix: [a]\n")

		_, err := store.Load("badprefix")
		if !errors.Is(err, ErrDescriptorInvalid) {
			t.Errorf("err = %v, want ErrDescriptorInvalid", err)
		}
	})
}
