package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/markkurossi/tabulate"
	"github.com/spf13/cobra"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/core"
	"github.com/BackendStack21/rainbow-go/sign"
	"github.com/BackendStack21/rainbow-go/utils"
)

func newKeygenCommand(a *app) *cobra.Command {
	var (
		out     string
		seedHex string
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair",
		Long: `Generate a key pair and write NAME` + publicKeySuffix + ` and
NAME` + secretKeySuffix + `. Existing files are never replaced unless
--force is given.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		params, err := a.cfg.Rainbow.Params()
		if err != nil {
			return err
		}
		pkFile, skFile := out+publicKeySuffix, out+secretKeySuffix
		if !force {
			for _, f := range []string{pkFile, skFile} {
				if _, err := os.Stat(f); err == nil {
					return fmt.Errorf("refusing to overwrite existing file %s", f)
				}
			}
		}

		s, err := a.scheme(params)
		if err != nil {
			return err
		}
		start := time.Now()
		var kp *sign.KeyPair
		if seedHex != "" {
			seed, err := hex.DecodeString(seedHex)
			if err != nil {
				return fmt.Errorf("invalid argument --seed: %w", err)
			}
			kp, err = s.GenerateKeyFromSeed(seed)
			utils.Zeroize(seed)
			if err != nil {
				return err
			}
		} else {
			if kp, err = s.GenerateKey(nil); err != nil {
				return err
			}
		}
		defer kp.SecretKey.Reset()
		a.log.Infof("Key generation took %v", time.Since(start))

		pkJSON, skJSON, err := exportKeyPair(kp.PublicKey, kp.SecretKey)
		if err != nil {
			return err
		}
		defer utils.Zeroize(skJSON)
		if err := writeOutput(cmd.OutOrStdout(), skJSON, skFile, force); err != nil {
			return err
		}
		if err := writeOutput(cmd.OutOrStdout(), pkJSON, pkFile, force); err != nil {
			return err
		}
		a.log.Noticef("Wrote %s and %s", pkFile, skFile)
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %s key pair (%d variables, %d equations)\n",
			describe(params), params.N(), params.M())
		return nil
	})
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file name prefix")
	cmd.Flags().StringVar(&seedHex, "seed", "", "hex encoded seed for deterministic key generation (at least 32 bytes)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing key files")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newSignCommand(a *app) *cobra.Command {
	var skFile, input, sigFile string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a file",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		if sigFile != "" {
			if _, err := os.Stat(sigFile); err == nil {
				return fmt.Errorf("refusing to overwrite existing file %s", sigFile)
			}
		}
		sk, err := loadSecretKey(skFile)
		if err != nil {
			return err
		}
		defer sk.Reset()
		message, err := readInputFile(input)
		if err != nil {
			return err
		}

		s, err := a.scheme(sk.Params)
		if err != nil {
			return err
		}
		digest, err := s.Digester().Digest(message, sk.Params.M())
		if err != nil {
			return err
		}
		start := time.Now()
		sig, err := s.Sign(sk, digest, nil)
		if err != nil {
			return err
		}
		a.log.Infof("Signing took %v", time.Since(start))

		envelope, err := sign.MarshalEnvelope(sk.Params, sig)
		if err != nil {
			return err
		}
		output, err := json.MarshalIndent(signatureExport{
			Digest:    s.Digester().Name(),
			Signature: base64.StdEncoding.EncodeToString(envelope),
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), output, sigFile, false)
	})
	cmd.Flags().StringVarP(&skFile, "secret-key", "k", "", "secret key file")
	cmd.Flags().StringVarP(&input, "input", "i", "", "file to sign")
	cmd.Flags().StringVarP(&sigFile, "signature", "s", "", "signature output file (stdout if omitted)")
	_ = cmd.MarkFlagRequired("secret-key")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newVerifyCommand(a *app) *cobra.Command {
	var pkFile, input, sigFile string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a file signature",
		Long:  "Verify a file signature. The exit status is 0 only for a valid signature.",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		pk, err := loadPublicKey(pkFile)
		if err != nil {
			return err
		}
		if fp, err := pk.Fingerprint(); err == nil {
			a.log.Infof("Verifying with public key %x", fp[:8])
		}
		data, err := readInputFile(sigFile)
		if err != nil {
			return err
		}
		var export signatureExport
		if err := json.Unmarshal(data, &export); err != nil {
			return fmt.Errorf("failed to parse signature file: %w", err)
		}
		envelope, err := decodeField("signature", export.Signature)
		if err != nil {
			return err
		}
		message, err := readInputFile(input)
		if err != nil {
			return err
		}

		s, err := a.scheme(pk.Params)
		if err != nil {
			return err
		}
		if export.Digest != s.Digester().Name() {
			return fmt.Errorf("signature uses digest %q, configured digest is %q", export.Digest, s.Digester().Name())
		}
		sig, err := sign.UnmarshalEnvelope(envelope, pk.Params)
		if err != nil {
			return err
		}
		digest, err := s.Digester().Digest(message, pk.Params.M())
		if err != nil {
			return err
		}
		ok, err := s.Verify(pk, sig, digest)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Signature INVALID")
			return errVerificationFailed
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signature valid")
		return nil
	})
	cmd.Flags().StringVarP(&pkFile, "public-key", "k", "", "public key file")
	cmd.Flags().StringVarP(&input, "input", "i", "", "signed file")
	cmd.Flags().StringVarP(&sigFile, "signature", "s", "", "signature file")
	_ = cmd.MarkFlagRequired("public-key")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}

func newParamsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "List the parameter sets and their sizes",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		selected, err := a.cfg.Rainbow.Params()
		if err != nil {
			return err
		}
		all := core.AllParams()
		custom := true
		for _, p := range all {
			if p.SameShape(selected) {
				custom = false
			}
		}
		if custom {
			all = append(all, selected)
		}

		tab := tabulate.New(tabulate.UnicodeLight)
		tab.Header("Set").SetAlign(tabulate.ML)
		for _, h := range []string{"v1", "o1", "o2", "n", "m", "Signature", "Public key", "Secret key"} {
			tab.Header(h).SetAlign(tabulate.MR)
		}
		for _, p := range all {
			row := tab.Row()
			name := describe(p)
			if p.SameShape(selected) {
				row.Column(name).SetFormat(tabulate.FmtBold)
			} else {
				row.Column(name)
			}
			for _, v := range []int{p.V1, p.O1, p.O2, p.N(), p.M()} {
				row.Column(fmt.Sprintf("%d", v))
			}
			row.Column(byteSize(core.SignatureSize(p)))
			row.Column(byteSize(utils.PackedLen(core.PublicKeyElements(p))))
			row.Column(byteSize(utils.PackedLen(core.SecretKeyElements(p))))
		}
		tab.Print(cmd.OutOrStdout())
		return nil
	})
	return cmd
}

func newBenchmarkCommand(a *app) *cobra.Command {
	var iterations int
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Time key generation, signing and verification",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		params, err := a.cfg.Rainbow.Params()
		if err != nil {
			return err
		}
		if iterations < 1 {
			iterations = 1
		}
		s, err := a.scheme(params)
		if err != nil {
			return err
		}
		testMessage := bytes.Repeat([]byte("Hello, Rainbow!"), 10)

		var keygenTotal, signTotal, verifyTotal time.Duration
		for i := 0; i < iterations; i++ {
			start := time.Now()
			kp, err := s.GenerateKey(nil)
			keygenTotal += time.Since(start)
			if err != nil {
				return fmt.Errorf("keygen: %w", err)
			}

			start = time.Now()
			sig, err := s.SignMessage(kp.SecretKey, testMessage, nil)
			signTotal += time.Since(start)
			if err != nil {
				return fmt.Errorf("sign: %w", err)
			}

			start = time.Now()
			ok, err := s.VerifyMessage(kp.PublicKey, testMessage, sig)
			verifyTotal += time.Since(start)
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			if !ok {
				return errVerificationFailed
			}
			kp.SecretKey.Reset()
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Rainbow benchmark: %s, %d iterations\n", describe(params), iterations)
		tab := tabulate.New(tabulate.UnicodeLight)
		tab.Header("Op").SetAlign(tabulate.ML)
		tab.Header("Average").SetAlign(tabulate.MR)
		tab.Header("Total").SetAlign(tabulate.MR)
		for _, r := range []struct {
			label string
			total time.Duration
		}{
			{"KeyGen", keygenTotal},
			{"Sign", signTotal},
			{"Verify", verifyTotal},
		} {
			row := tab.Row()
			row.Column(r.label)
			row.Column((r.total / time.Duration(iterations)).String())
			row.Column(r.total.String())
		}
		tab.Print(cmd.OutOrStdout())
		return nil
	})
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "number of iterations")
	return cmd
}

func describe(p rainbow.Params) string {
	if p.Set != "" {
		return string(p.Set)
	}
	return fmt.Sprintf("custom(%d,%d,%d)", p.V1, p.O1, p.O2)
}

func byteSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
