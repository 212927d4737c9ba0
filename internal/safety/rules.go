package safety

import "regexp"

// Rule defines an unsafe-intent detection pattern. Matching is a cheap
// tripwire over raw text, not a security boundary: false positives and false
// negatives are both expected.
type Rule struct {
	Name     string
	Regex    *regexp.Regexp
	Category string // "destructive_shell", "dynamic_exec", "network_attack", "malware_keyword"
}

// DefaultRules returns the built-in unsafe-content rules, evaluated in order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "rm_rf",
			Regex:    regexp.MustCompile(`(?i)rm\s+-[a-z]*r[a-z]*f|rm\s+-[a-z]*f[a-z]*r`),
			Category: "destructive_shell",
		},
		{
			Name:     "mkfs",
			Regex:    regexp.MustCompile(`(?i)mkfs(\.[a-z0-9]+)?\s`),
			Category: "destructive_shell",
		},
		{
			Name:     "fork_bomb",
			Regex:    regexp.MustCompile(`:\(\)\s*\{\s*:\|:\s*&\s*\}`),
			Category: "destructive_shell",
		},
		{
			Name:     "dd_device",
			Regex:    regexp.MustCompile(`(?i)dd\s+[^\n]*of=/dev/`),
			Category: "destructive_shell",
		},
		{
			Name:     "eval_call",
			Regex:    regexp.MustCompile(`(?i)\beval\s*\(`),
			Category: "dynamic_exec",
		},
		{
			Name:     "exec_call",
			Regex:    regexp.MustCompile(`(?i)\bexec\s*\(`),
			Category: "dynamic_exec",
		},
		{
			Name:     "child_process",
			Regex:    regexp.MustCompile(`(?i)child_process|execSync\s*\(`),
			Category: "dynamic_exec",
		},
		{
			Name:     "os_system",
			Regex:    regexp.MustCompile(`(?i)os\.system\s*\(|subprocess\.(run|call|Popen)\s*\(`),
			Category: "dynamic_exec",
		},
		{
			Name:     "netcat_exec",
			Regex:    regexp.MustCompile(`(?i)\bnc\s+[^\n]*\s-e\b|\bncat\s+[^\n]*--exec`),
			Category: "network_attack",
		},
		{
			Name:     "dev_tcp",
			Regex:    regexp.MustCompile(`(?i)/dev/tcp/`),
			Category: "network_attack",
		},
		{
			Name:     "reverse_shell",
			Regex:    regexp.MustCompile(`(?i)reverse\s*shell|bash\s+-i\s+>&`),
			Category: "network_attack",
		},
		{
			Name:     "malware_keyword",
			Regex:    regexp.MustCompile(`(?i)\b(keylogger|ransomware|botnet|rootkit|spyware|malware|trojan)\b`),
			Category: "malware_keyword",
		},
		{
			Name:     "credential_theft",
			Regex:    regexp.MustCompile(`(?i)(steal|harvest|exfiltrate)\s+(passwords?|credentials?|cookies?|tokens?)`),
			Category: "malware_keyword",
		},
		{
			Name:     "ddos",
			Regex:    regexp.MustCompile(`(?i)\b(ddos|dos\s+attack|flood\s+attack)\b`),
			Category: "malware_keyword",
		},
		{
			Name:     "sql_injection",
			Regex:    regexp.MustCompile(`(?i)('\s*or\s+'?1'?\s*=\s*'?1|union\s+select\s+[^\n]*--|;\s*drop\s+table)`),
			Category: "malware_keyword",
		},
	}
}
