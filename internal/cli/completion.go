// Package cli provides shell completion script generation for various shells.
package cli

import (
	"fmt"
	"io"
)

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//   - functions: List of available function names, offered when completing an
//     expression argument.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, functions []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, functions)
	case "zsh":
		return generateZshCompletion(out, functions)
	case "fish":
		return generateFishCompletion(out, functions)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, functions)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

// joinWords concatenates names with the given separator, quoting each name
// with the quote string when nonempty.
func joinWords(names []string, sep, quote string) string {
	list := ""
	for i, name := range names {
		if i > 0 {
			list += sep
		}
		list += quote + name + quote
	}
	return list
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer, functions []string) error {
	script := `# Bash completion script for mpcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_mpcalc_completions() {
    local cur prev opts functions
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main options
    opts="--help -h --version -V -e -v -d --details --prec --digits --mode --emin --emax --timeout --calibrate --auto-calibrate --calibration-profile --json --server --port --no-color --output -o --quiet -q --hex --interactive --completion"

    # Available functions
    functions="%s"

    case "${prev}" in
        --mode)
            COMPREPLY=( $(compgen -W "nearest nearestaway zero away down up" -- "${cur}") )
            return 0
            ;;
        --completion)
            COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- "${cur}") )
            return 0
            ;;
        --output|-o|--calibration-profile)
            # File/directory completion
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
        --port)
            COMPREPLY=( $(compgen -W "8080 3000 5000 9000" -- "${cur}") )
            return 0
            ;;
        --timeout)
            COMPREPLY=( $(compgen -W "30s 1m 5m 10m 1h" -- "${cur}") )
            return 0
            ;;
        --prec)
            COMPREPLY=( $(compgen -W "53 64 128 256 512 1024" -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi

    # Offer function names while typing an expression
    COMPREPLY=( $(compgen -W "${functions}" -- "${cur}") )
}

complete -F _mpcalc_completions mpcalc
`
	_, err := fmt.Fprintf(out, script, joinWords(functions, " ", ""))
	return err
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer, functions []string) error {
	script := `#compdef mpcalc

# Zsh completion script for mpcalc
# Add this to your ~/.zshrc or place in $fpath

_mpcalc() {
    local -a functions
    functions=(%s)

    _arguments -s \
        '(-h --help)'{-h,--help}'[Show help message]' \
        '(-V --version)'{-V,--version}'[Show version information]' \
        '-e[Expression to evaluate]:expression:($functions)' \
        '-v[Display full result value]' \
        '(-d --details)'{-d,--details}'[Show timing and exception details]' \
        '--prec[Working precision in bits]:bits:(53 64 128 256 512 1024)' \
        '--digits[Working precision in decimal digits]:digits:' \
        '--mode[Rounding mode]:mode:(nearest nearestaway zero away down up)' \
        '--emin[Smallest allowed result exponent]:exponent:' \
        '--emax[Largest allowed result exponent]:exponent:' \
        '--timeout[Maximum execution time]:duration:(30s 1m 5m 10m 1h)' \
        '--calibrate[Run calibration mode]' \
        '--auto-calibrate[Enable auto-calibration]' \
        '--calibration-profile[Calibration profile file]:file:_files' \
        '--json[Output in JSON format]' \
        '--server[Start HTTP server mode]' \
        '--port[Server port]:port:(8080 3000 5000 9000)' \
        '--no-color[Disable colored output]' \
        '(-o --output)'{-o,--output}'[Output file path]:file:_files' \
        '(-q --quiet)'{-q,--quiet}'[Quiet mode for scripts]' \
        '--hex[Display result in hexadecimal floating point]' \
        '--interactive[Start interactive REPL mode]' \
        '--completion[Generate completion script]:shell:(bash zsh fish powershell)'
}

_mpcalc "$@"
`
	_, err := fmt.Fprintf(out, script, joinWords(functions, " ", ""))
	return err
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer, functions []string) error {
	script := `# Fish completion script for mpcalc
# Add this to ~/.config/fish/completions/mpcalc.fish

# Disable file completion by default
complete -c mpcalc -f

# Help and version
complete -c mpcalc -s h -l help -d 'Show help message'
complete -c mpcalc -s V -l version -d 'Show version information'

# Main options
complete -c mpcalc -s e -d 'Expression to evaluate' -x
complete -c mpcalc -s v -d 'Display full result value'
complete -c mpcalc -s d -l details -d 'Show timing and exception details'
complete -c mpcalc -l prec -d 'Working precision in bits' -xa '53 64 128 256 512 1024'
complete -c mpcalc -l digits -d 'Working precision in decimal digits' -x
complete -c mpcalc -l mode -d 'Rounding mode' -xa 'nearest nearestaway zero away down up'
complete -c mpcalc -l emin -d 'Smallest allowed result exponent' -x
complete -c mpcalc -l emax -d 'Largest allowed result exponent' -x
complete -c mpcalc -l timeout -d 'Maximum execution time' -xa '30s 1m 5m 10m 1h'

# Calibration
complete -c mpcalc -l calibrate -d 'Run calibration mode'
complete -c mpcalc -l auto-calibrate -d 'Enable auto-calibration'
complete -c mpcalc -l calibration-profile -d 'Calibration profile file' -rF

# Output options
complete -c mpcalc -l json -d 'Output in JSON format'
complete -c mpcalc -s o -l output -d 'Output file path' -rF
complete -c mpcalc -s q -l quiet -d 'Quiet mode for scripts'
complete -c mpcalc -l hex -d 'Display result in hexadecimal floating point'
complete -c mpcalc -l no-color -d 'Disable colored output'

# Server mode
complete -c mpcalc -l server -d 'Start HTTP server mode'
complete -c mpcalc -l port -d 'Server port' -xa '8080 3000 5000 9000'

# Interactive and completion
complete -c mpcalc -l interactive -d 'Start interactive REPL mode'
complete -c mpcalc -l completion -d 'Generate completion script' -xa 'bash zsh fish powershell'

# Function names for expressions
complete -c mpcalc -a '%s'
`
	_, err := fmt.Fprintf(out, script, joinWords(functions, " ", ""))
	return err
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer, functions []string) error {
	script := `# PowerShell completion script for mpcalc
# Add this to your $PROFILE

$mpcalcFunctions = @(%s)

Register-ArgumentCompleter -CommandName 'mpcalc' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
        @{Name = '-h'; Description = 'Show help message' }
        @{Name = '--help'; Description = 'Show help message' }
        @{Name = '-V'; Description = 'Show version information' }
        @{Name = '--version'; Description = 'Show version information' }
        @{Name = '-e'; Description = 'Expression to evaluate' }
        @{Name = '-v'; Description = 'Display full result value' }
        @{Name = '-d'; Description = 'Show timing and exception details' }
        @{Name = '--details'; Description = 'Show timing and exception details' }
        @{Name = '--prec'; Description = 'Working precision in bits' }
        @{Name = '--digits'; Description = 'Working precision in decimal digits' }
        @{Name = '--mode'; Description = 'Rounding mode' }
        @{Name = '--emin'; Description = 'Smallest allowed result exponent' }
        @{Name = '--emax'; Description = 'Largest allowed result exponent' }
        @{Name = '--timeout'; Description = 'Maximum execution time' }
        @{Name = '--calibrate'; Description = 'Run calibration mode' }
        @{Name = '--auto-calibrate'; Description = 'Enable auto-calibration' }
        @{Name = '--calibration-profile'; Description = 'Calibration profile file' }
        @{Name = '--json'; Description = 'Output in JSON format' }
        @{Name = '--server'; Description = 'Start HTTP server mode' }
        @{Name = '--port'; Description = 'Server port' }
        @{Name = '--no-color'; Description = 'Disable colored output' }
        @{Name = '-o'; Description = 'Output file path' }
        @{Name = '--output'; Description = 'Output file path' }
        @{Name = '-q'; Description = 'Quiet mode for scripts' }
        @{Name = '--quiet'; Description = 'Quiet mode for scripts' }
        @{Name = '--hex'; Description = 'Display result in hexadecimal floating point' }
        @{Name = '--interactive'; Description = 'Start interactive REPL mode' }
        @{Name = '--completion'; Description = 'Generate completion script' }
    )

    $elements = $commandAst.CommandElements
    $lastElement = if ($elements.Count -gt 1) { $elements[-1].ToString() } else { '' }
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    # Context-aware completions
    switch ($prevElement) {
        '--mode' {
            @('nearest', 'nearestaway', 'zero', 'away', 'down', 'up') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '--completion' {
            @('bash', 'zsh', 'fish', 'powershell') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '--timeout' {
            @('30s', '1m', '5m', '10m', '1h') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '--port' {
            @('8080', '3000', '5000', '9000') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
    }

    # Default: show options
    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`
	_, err := fmt.Fprintf(out, script, joinWords(functions, ", ", "'"))
	return err
}
