// Command mlkemctl is a demo CLI for the ML-KEM engine:
// generate a key pair, encapsulate against an encapsulation key,
// decapsulate a ciphertext, run the module's self-tests, or serve its
// Prometheus/health endpoints.
//
// Grounded on cmd/quantum-vpn/main.go's command-dispatch shape, rescoped
// from demo/bench/example tunnel subcommands to this module's own
// operations.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/sara-star-quant/mlkem-go/pkg/mlkem"
	"github.com/sara-star-quant/mlkem-go/pkg/observability"
	"github.com/sara-star-quant/mlkem-go/pkg/params"
	"github.com/sara-star-quant/mlkem-go/pkg/selftest"
	pkgversion "github.com/sara-star-quant/mlkem-go/pkg/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "keygen":
		keygenCommand(os.Args[2:])
	case "encapsulate":
		encapsulateCommand(os.Args[2:])
	case "decapsulate":
		decapsulateCommand(os.Args[2:])
	case "selftest":
		selftestCommand(os.Args[2:])
	case "serve":
		serveCommand(os.Args[2:])
	case "version":
		fmt.Println(pkgversion.Full())
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mlkemctl - ML-KEM (FIPS 203) demo tool

USAGE:
    mlkemctl <command> [options]

COMMANDS:
    keygen        Generate an ML-KEM key pair
    encapsulate   Encapsulate a shared secret against an encapsulation key
    decapsulate   Decapsulate a shared secret from a ciphertext
    selftest      Run the Power-On Self-Test and report its result
    serve         Serve Prometheus metrics and health endpoints
    version       Print version information
    help          Show this help message

Run 'mlkemctl <command> --help' for command-specific options.`)
}

func parameterSetFlag(fs *flag.FlagSet) *string {
	return fs.String("level", "768", "Parameter set: 512, 768, or 1024")
}

func keygenCommand(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	level := parameterSetFlag(fs)
	_ = fs.Parse(args)

	var ek mlkem.EncapsulationKey
	var dk mlkem.DecapsulationKey
	var err error

	switch *level {
	case "512":
		ek, dk, err = mlkem.GenerateKeyPairRandom[params.ML512]()
	case "768":
		ek, dk, err = mlkem.GenerateKeyPairRandom[params.ML768]()
	case "1024":
		ek, dk, err = mlkem.GenerateKeyPairRandom[params.ML1024]()
	default:
		fmt.Fprintf(os.Stderr, "unknown parameter set: %s\n", *level)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "keygen failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ek: %s\n", hex.EncodeToString(ek))
	fmt.Printf("dk: %s\n", hex.EncodeToString(dk))
}

func encapsulateCommand(args []string) {
	fs := flag.NewFlagSet("encapsulate", flag.ExitOnError)
	level := parameterSetFlag(fs)
	ekHex := fs.String("ek", "", "Encapsulation key, hex-encoded")
	_ = fs.Parse(args)

	ek, err := hex.DecodeString(*ekHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -ek: %v\n", err)
		os.Exit(1)
	}

	var k [mlkem.SharedSecretSize]byte
	var c []byte

	switch *level {
	case "512":
		k, c, err = mlkem.Encapsulate[params.ML512](ek)
	case "768":
		k, c, err = mlkem.Encapsulate[params.ML768](ek)
	case "1024":
		k, c, err = mlkem.Encapsulate[params.ML1024](ek)
	default:
		fmt.Fprintf(os.Stderr, "unknown parameter set: %s\n", *level)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "encapsulate failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("K: %s\n", hex.EncodeToString(k[:]))
	fmt.Printf("c: %s\n", hex.EncodeToString(c))
}

func decapsulateCommand(args []string) {
	fs := flag.NewFlagSet("decapsulate", flag.ExitOnError)
	level := parameterSetFlag(fs)
	dkHex := fs.String("dk", "", "Decapsulation key, hex-encoded")
	cHex := fs.String("c", "", "Ciphertext, hex-encoded")
	_ = fs.Parse(args)

	dk, err := hex.DecodeString(*dkHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -dk: %v\n", err)
		os.Exit(1)
	}
	c, err := hex.DecodeString(*cHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -c: %v\n", err)
		os.Exit(1)
	}

	var k [mlkem.SharedSecretSize]byte
	switch *level {
	case "512":
		k, err = mlkem.Decapsulate[params.ML512](dk, c)
	case "768":
		k, err = mlkem.Decapsulate[params.ML768](dk, c)
	case "1024":
		k, err = mlkem.Decapsulate[params.ML1024](dk, c)
	default:
		fmt.Fprintf(os.Stderr, "unknown parameter set: %s\n", *level)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "decapsulate failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("K: %s\n", hex.EncodeToString(k[:]))
}

func selftestCommand(args []string) {
	fs := flag.NewFlagSet("selftest", flag.ExitOnError)
	_ = fs.Parse(args)

	result := selftest.RunPOST()
	fmt.Printf("field:  %v\n", result.FieldPassed)
	fmt.Printf("ntt:    %v\n", result.NTTPassed)
	fmt.Printf("kem:    %v\n", result.KEMPassed)
	fmt.Printf("passed: %v\n", result.Passed)

	if !result.Passed {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		os.Exit(1)
	}
}

func serveCommand(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":9090", "Address to serve /metrics and health endpoints on")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn, error, silent")
	logFormat := fs.String("log-format", "text", "Log format: text or json")
	_ = fs.Parse(args)

	format := observability.FormatText
	if *logFormat == "json" {
		format = observability.FormatJSON
	}
	observability.SetLogger(observability.NewLogger(
		observability.WithLevel(observability.ParseLevel(*logLevel)),
		observability.WithFormat(format),
		observability.WithName("mlkemctl"),
	))

	srv := observability.NewServer(observability.ServerConfig{
		Collector:        observability.GlobalCollector(),
		Version:          pkgversion.String(),
		EnablePrometheus: true,
		EnableHealth:     true,
		PostCheck:        selftest.HealthCheckFunc(),
	})

	observability.L().Info("serving metrics and health endpoints", observability.Fields{"addr": *addr})
	if err := srv.ListenAndServe(*addr); err != nil {
		observability.L().Error("server exited", observability.Fields{"error": err.Error()})
		os.Exit(1)
	}
}
