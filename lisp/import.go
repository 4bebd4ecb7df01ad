package lisp

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// importModule executes the module at path in a new interpreter and merges
// the module's global bindings into env.  FILE is merged like any other
// binding, so afterwards it names the module.
func importModule(env *LEnv, path string) error {
	rt := env.Runtime
	if rt.importing[path] {
		return Errorf(KindResource, "import", "import cycle: %s", path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return WrapError(KindResource, "import", err, "cannot read module %s", path)
	}
	rt.Logger.Debug("import module", slog.String("path", path))

	if rt.importing == nil {
		rt.importing = make(map[string]bool)
	}
	rt.importing[path] = true
	mod := newInterpreter(rt)
	mod.SetFile(path)
	mod.LoadCode(string(source))
	_, err = mod.Execute()
	delete(rt.importing, path)
	if err != nil {
		kind := ErrorKindOf(err)
		if kind == KindUnknown {
			kind = KindResource
		}
		return WrapError(kind, "import", err, "module %s", path)
	}
	env.Merge(mod.env)
	return nil
}

// resolveModulePath locates the source file for module.  Paths starting with
// ``./'' or ``../'' are relative to the directory of the importing file.
// Other relative paths are searched for in the runtime's module path.
func resolveModulePath(env *LEnv, module string) (string, error) {
	name := filepath.FromSlash(module)
	if filepath.Ext(name) == "" {
		name += SourceExt
	}
	if strings.HasPrefix(module, "./") || strings.HasPrefix(module, "../") {
		b, ok := env.Find(FileSymbol)
		if !ok || b.IsBuiltin() || b.Value.Type != LString {
			return "", typeErrorf("import", "%s is not bound to a string", FileSymbol)
		}
		return filepath.Join(filepath.Dir(b.Value.Str), name), nil
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	for _, dir := range env.Runtime.ModulePath {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
	}
	return "", Errorf(KindResource, "import", "module not found: %s", module)
}
