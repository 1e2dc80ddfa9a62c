// Package utils contains utility functions for the ElectroGest daemon.
package utils

import (
	"fmt"
)

// DisplayLogo prints the ElectroGest ASCII logo with version information
func DisplayLogo(version string) {
	fmt.Println()
	fmt.Println(` ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░
 ░█▀▀░█░░░█▀▀░█▀▀░▀█▀░█▀▄░█▀█░█▀▀░█▀▀░█▀▀░▀█▀░░
 ░█▀▀░█░░░█▀▀░█░░░░█░░█▀▄░█░█░█░█░█▀▀░▀▀█░░█░░░
 ░▀▀▀░▀▀▀░▀▀▀░▀▀▀░░▀░░▀░▀░▀▀▀░▀▀▀░▀▀▀░▀▀▀░░▀░░░
 ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░`)
	fmt.Printf("\n ElectroGest v%s - Sistema de Gestão Comercial\n", version)
	fmt.Println(" Vendas, estoque, clientes e relatórios em um só lugar")
	fmt.Println()
}
