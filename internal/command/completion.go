// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/voyage/internal/meta"
)

const bashCompletionScript = `# bash completion for voyage
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_voyage()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "apod mars epic cache completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr --schema"
    local runtime="--api-key --backend --cache-dir --metrics-file"

    case "$cmd" in
        apod)
            local opts="$common $runtime --date -d --start --end --count -n"
            ;;
        mars)
            local opts="$common $runtime --rover -r --sol --camera --latest"
            ;;
        epic)
            local opts="$common $runtime"
            ;;
        cache)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "stats warm clear" -- "$cur") )
                return 0
            fi
            local opts="$common $runtime --rover -r"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --rover|-r)
            COMPREPLY=( $(compgen -W "curiosity opportunity spirit perseverance" -- "$cur") )
            return 0
            ;;
        --backend)
            COMPREPLY=( $(compgen -W "file redis s3 none" -- "$cur") )
            return 0
            ;;
        --cache-dir|--metrics-file)
            COMPREPLY=( $(compgen -o filenames -f -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _voyage voyage
`

const zshCompletionScript = `#compdef voyage

_voyage() {
  local -a cmds
  cmds=(
    'apod:astronomy picture of the day'
    'mars:mars rover photos'
    'epic:EPIC earth imagery'
    'cache:inspect, warm or clear the response cache'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  '--schema[dump schema]'
  '--api-key[NASA API key]:key'
  '--backend[cache backend]:backend:(file redis s3 none)'
  '--cache-dir[cache directory]:directory:_directories'
  '--metrics-file[metrics textfile]:file:_files'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'voyage commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    apod)
      _arguments -C \
        $common \
        '(-d --date)'{-d,--date}'[day to fetch]:date' \
        '--start[first day of a range]:date' \
        '--end[last day of a range]:date' \
        '(-n --count)'{-n,--count}'[random pictures]:count'
      ;;
    mars)
      _arguments -C \
        $common \
        '(-r --rover)'{-r,--rover}'[rover]:rover:(curiosity opportunity spirit perseverance)' \
        '--sol[martian day]:sol' \
        '--camera[camera]:camera' \
        '--latest[latest sol with photos]'
      ;;
    epic)
      _arguments -C $common
      ;;
    cache)
      if (( CURRENT == 3 )); then
        _values 'cache commands' stats warm clear
        return
      fi
      _arguments -C $common
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _voyage voyage
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}

	w := writerOf(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	case "":
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: voyage completion [bash|zsh]")
		}
	default:
		return fmt.Errorf("unsupported shell %q, want bash or zsh", shell)
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "voyage completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
