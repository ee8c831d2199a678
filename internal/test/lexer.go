package test

import (
	"math/rand"
	"strings"
)

const validTokens = "var;print;if;else;while;for;and;or;true;false;nil;(;);{;};,;.;-;+;/;*;!;!=;=;==;>;>=;<;<=;\"this is a string\";\"this is a longer string containing a bunch of text: Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\";\"\";identifier;_under_score;x1;123;3.25;0;//comment\n;\n"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")
	// The split drops the semicolon itself, so add it back
	valid = append(valid, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

const validStatements = "var a = 1;|a = a + 1;|print a;|{ var b = \"s\"; print b + \"t\"; }|if (a > 2) print a; else print -a;|while (a < 3) a = a + 1;|for (var i = 0; i < 2; i = i + 1) print i;|print a == nil or !true;"

// GetRandomProgram returns size statements that parse without errors. The
// first statement always declares a, which the others rely on.
func GetRandomProgram(size int) string {
	valid := strings.Split(validStatements, "|")

	stmts := []string{valid[0]}
	for len(stmts) < size {
		stmts = append(stmts, valid[rand.Intn(len(valid))])
	}

	return strings.Join(stmts, "\n")
}
