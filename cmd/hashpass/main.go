package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/gestaozabele/cidadao/internal/auth"
)

// hashpass gera hash Argon2id para semear usuários direto no banco.
// Sem argumento, lê a senha da entrada padrão.
func main() {
	password := ""
	if len(os.Args) >= 2 {
		password = os.Args[1]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "uso: hashpass <senha>  (ou senha via stdin)")
			os.Exit(1)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if strings.TrimSpace(password) == "" {
		fmt.Fprintln(os.Stderr, "senha vazia")
		os.Exit(1)
	}

	hash, err := auth.Hash(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "erro ao gerar hash: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
