// intake drives the certificate workflow from a terminal: upload a file or
// pasted text, review the auto-filled form, edit fields, submit.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"credit-bot/api/internal/portal"
	"credit-bot/api/internal/review"
)

func main() {
	_ = godotenv.Load()

	var (
		base = flag.String("base", os.Getenv("PORTAL_BASE_URL"), "portal base URL")
		file = flag.String("file", "", "certificate file to upload")
		text = flag.String("text", "", "pasted certificate text")
	)
	flag.Parse()

	if *base == "" {
		log.Fatal("portal base URL is empty: pass -base or set PORTAL_BASE_URL")
	}

	client := portal.New(*base)
	ctx := context.Background()

	in := review.Input{Text: *text}
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("read %s: %v", *file, err)
		}
		in.Filename = filepath.Base(*file)
		in.Data = data
	}

	up := review.NewUploader(client)
	up.Notify = func(s review.Stage) { fmt.Println("  … " + s.Label()) }

	redirect, err := up.Submit(ctx, in)
	if err != nil {
		log.Fatal(err)
	}

	uploadID := portal.UploadIDFromRedirect(redirect)
	form := review.NewForm()
	if uploadID != "" {
		res, err := client.GetUpload(ctx, uploadID)
		if err != nil {
			log.Printf("load extracted data %s: %v", uploadID, err)
		} else {
			form.AutoFill(res.ExtractedFields)
		}
	}

	printForm(form, uploadID)
	runReviewLoop(ctx, client, form, uploadID)
}

func runReviewLoop(ctx context.Context, client *portal.Client, form *review.Form, uploadID string) {
	sc := bufio.NewScanner(os.Stdin)
	fmt.Println(`Commands: <field>=<value> to edit, "show", "submit", "quit"`)

	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return
		}
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || line == "show":
			printForm(form, uploadID)

		case line == "quit":
			return

		case line == "submit":
			if form.NeedsConfirmation() {
				fmt.Print("Some fields are still low confidence. Submit anyway? [y/N] ")
				if !sc.Scan() || strings.ToLower(strings.TrimSpace(sc.Text())) != "y" {
					fmt.Println("Not submitted. Review the flagged fields.")
					continue
				}
			}
			url, err := client.SubmitInternship(ctx, form.Submission(uploadID))
			if err != nil {
				fmt.Println("Submission failed: " + err.Error())
				continue
			}
			fmt.Println("Submitted. Result: " + client.AbsoluteURL(url))
			return

		case strings.Contains(line, "="):
			k, v, _ := strings.Cut(line, "=")
			k = strings.TrimSpace(k)
			if !knownField(k) {
				fmt.Printf("unknown field %q\n", k)
				continue
			}
			form.FieldEdited(k, strings.TrimSpace(v))
			printForm(form, uploadID)

		default:
			fmt.Println(`unrecognized input; try "show", "submit", "quit" or <field>=<value>`)
		}
	}
}

func knownField(name string) bool {
	for _, f := range review.ScoredFields {
		if f == name {
			return true
		}
	}
	for _, f := range review.PassthroughFields {
		if f == name {
			return true
		}
	}
	return false
}

func printForm(form *review.Form, uploadID string) {
	fmt.Println()
	if uploadID != "" {
		fmt.Println("Internship credit form — upload " + uploadID)
	} else {
		fmt.Println("Internship credit form")
	}
	switch form.Banner() {
	case review.BannerAllHigh:
		fmt.Println("All fields extracted with high confidence.")
	case review.BannerAttention:
		fmt.Println("Some fields need your attention.")
	}
	for _, name := range append(append([]string{}, review.ScoredFields...), review.PassthroughFields...) {
		val := form.Value(name)
		if val == "" {
			val = "-"
		}
		mark := ""
		if form.Verified(name) {
			mark = " [verified]"
		} else if lvl := form.LevelFor(name); lvl != review.LevelUnset {
			mark = " [" + lvl.String() + "]"
			if lvl.NeedsVerification() {
				mark += " needs verification"
			}
		}
		fmt.Printf("  %-18s %s%s\n", name+":", val, mark)
	}
	fmt.Println()
}
