package logs

import (
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// SecretSanitizer wraps a zapcore.Core to mask OAuth2 tokens and
// high-entropy secrets before they reach any log sink. Values registered
// with RegisterResolvedSecret (a live client_secret or access_token) are
// masked wherever they appear in a log message or string field; bearer
// tokens, JWTs and long high-entropy values are masked by pattern. Fields
// of other types pass through unchanged.
type SecretSanitizer struct {
	zapcore.Core
	patterns      []*secretPattern
	resolvedCache sync.Map
}

type secretPattern struct {
	regex    *regexp.Regexp
	maskFunc func(string) string
}

// NewSecretSanitizer wraps core with the default secret patterns.
func NewSecretSanitizer(core zapcore.Core) *SecretSanitizer {
	s := &SecretSanitizer{Core: core}
	s.registerDefaultPatterns()
	return s
}

func (s *SecretSanitizer) registerDefaultPatterns() {
	s.patterns = append(s.patterns, &secretPattern{
		regex: regexp.MustCompile(`\b(Bearer\s+[A-Za-z0-9\-\._~\+\/]+=*)\b`),
		maskFunc: func(token string) string {
			parts := strings.SplitN(token, " ", 2)
			if len(parts) != 2 || len(parts[1]) <= 4 {
				return "Bearer ****"
			}
			return "Bearer " + parts[1][:4] + "***" + parts[1][len(parts[1])-2:]
		},
	})

	s.patterns = append(s.patterns, &secretPattern{
		regex: regexp.MustCompile(`\b(eyJ[A-Za-z0-9\-_]+\.eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+)\b`),
		maskFunc: func(jwt string) string {
			parts := strings.Split(jwt, ".")
			if len(parts) != 3 || len(parts[2]) < 4 {
				return "****"
			}
			return parts[0] + ".***." + parts[2][len(parts[2])-4:]
		},
	})

	s.patterns = append(s.patterns, &secretPattern{
		regex: regexp.MustCompile(`(["':=]\s*)(["'])?([A-Za-z0-9+/]{32,}={0,2})(["'])?`),
		maskFunc: func(match string) string {
			re := regexp.MustCompile(`(["':=]\s*)(["'])?([A-Za-z0-9+/]{32,}={0,2})(["'])?`)
			parts := re.FindStringSubmatch(match)
			if len(parts) < 4 || !hasHighEntropy(parts[3]) {
				return match
			}
			return parts[1] + parts[2] + maskValue(parts[3]) + parts[4]
		},
	})
}

// RegisterResolvedSecret masks an exact value (a live client_secret or
// access_token) wherever it appears in subsequent log output.
func (s *SecretSanitizer) RegisterResolvedSecret(value string) {
	if len(value) >= 4 {
		s.resolvedCache.Store(value, struct{}{})
	}
}

func (s *SecretSanitizer) sanitizeString(str string) string {
	result := str
	s.resolvedCache.Range(func(key, _ any) bool {
		secret := key.(string)
		result = strings.ReplaceAll(result, secret, maskValue(secret))
		return true
	})
	for _, p := range s.patterns {
		result = p.regex.ReplaceAllStringFunc(result, p.maskFunc)
	}
	return result
}

func (s *SecretSanitizer) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	entry.Message = s.sanitizeString(entry.Message)
	sanitized := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		sanitized[i] = s.sanitizeField(f)
	}
	return s.Core.Write(entry, sanitized)
}

func (s *SecretSanitizer) sanitizeField(field zapcore.Field) zapcore.Field {
	if field.Type == zapcore.StringType {
		field.String = s.sanitizeString(field.String)
	}
	return field
}

func (s *SecretSanitizer) With(fields []zapcore.Field) zapcore.Core {
	sanitized := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		sanitized[i] = s.sanitizeField(f)
	}
	return &SecretSanitizer{
		Core:          s.Core.With(sanitized),
		patterns:      s.patterns,
		resolvedCache: s.resolvedCache,
	}
}

func (s *SecretSanitizer) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if s.Enabled(entry.Level) {
		return checked.AddCore(entry, s)
	}
	return checked
}

func maskValue(value string) string {
	if len(value) <= 5 {
		return "****"
	}
	if len(value) <= 8 {
		return value[:2] + "****"
	}
	return value[:3] + "***" + value[len(value)-2:]
}

func hasHighEntropy(s string) bool {
	if len(s) < 16 {
		return false
	}
	charCount := make(map[rune]int)
	for _, c := range s {
		charCount[c]++
	}
	uniqueRatio := float64(len(charCount)) / float64(len(s))

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	variety := 0
	for _, b := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if b {
			variety++
		}
	}
	return uniqueRatio > 0.6 && variety >= 3
}
