package config

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

var (
	reExport = regexp.MustCompile(`^\s*export\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)\s*$`)
	reAssign = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)\s*$`)
)

// LoadEnv loads simple shell-style env files into the process environment.
// Supports `KEY=value` and `export KEY=value` lines; values may be unquoted,
// single-quoted, or double-quoted. Missing files are skipped.
func LoadEnv(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		scan := bufio.NewScanner(f)
		for scan.Scan() {
			line := strings.TrimSpace(scan.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			var key, val string
			if m := reExport.FindStringSubmatch(line); m != nil {
				key, val = m[1], m[2]
			} else if m := reAssign.FindStringSubmatch(line); m != nil {
				key, val = m[1], m[2]
			} else {
				continue
			}
			os.Setenv(key, unquote(strings.TrimSpace(val)))
		}
		f.Close()
	}
}

// LoadDefaultEnv loads env from ECOUTE_ENV and ./.env when present.
func LoadDefaultEnv() {
	if p := strings.TrimSpace(os.Getenv("ECOUTE_ENV")); p != "" {
		LoadEnv(p)
	}
	LoadEnv(".env")
}

func unquote(val string) string {
	if strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) && len(val) >= 2 {
		v := val[1 : len(val)-1]
		v = strings.ReplaceAll(v, `\\`, `\`)
		v = strings.ReplaceAll(v, `\"`, `"`)
		return v
	}
	if strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") && len(val) >= 2 {
		return val[1 : len(val)-1]
	}
	return val
}
