// Command hash-verify computes a file digest and optionally records it
// in, or verifies it against, the integrity log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/forensiq/abusescan/pkg/abusescan/hash"
	"github.com/forensiq/abusescan/pkg/abusescan/integrity"
	"github.com/forensiq/abusescan/pkg/abusescan/integrity/filelog"
)

func main() {
	var (
		file      = flag.String("file", "", "File to hash (required)")
		algorithm = flag.String("algorithm", hash.DefaultAlgorithm, "Digest algorithm: md5, sha1, sha256, sha512")
		chunkSize = flag.Int("chunk", hash.DefaultChunkSize, "Read chunk size in bytes")
		logPath   = flag.String("log", "results/integrity_hashes.txt", "Integrity log path")
		record    = flag.Bool("record", false, "Append the digest to the integrity log")
		verify    = flag.Bool("verify", false, "Compare the digest against the latest logged entry")
	)
	flag.Parse()

	if *file == "" {
		log.Fatal("--file required")
	}

	digest, err := hash.File(*file, *algorithm, *chunkSize)
	if err != nil {
		log.Fatalf("hash %s: %v", *file, err)
	}
	fmt.Printf("%s  %s\n", digest, *file)

	if !*record && !*verify {
		return
	}

	ctx := context.Background()
	intlog := filelog.Open(*logPath)

	if *verify {
		entry, found, err := integrity.Latest(ctx, intlog, *file)
		if err != nil {
			log.Fatalf("read integrity log: %v", err)
		}
		if !found {
			log.Fatalf("no logged digest for %s in %s", *file, *logPath)
		}
		if entry.Digest != digest {
			fmt.Printf("MISMATCH: logged %s at %s\n", entry.Digest, entry.Timestamp.Format(time.RFC3339))
			os.Exit(1)
		}
		fmt.Printf("OK: matches entry logged at %s\n", entry.Timestamp.Format(time.RFC3339))
	}

	if *record {
		entry := integrity.Entry{
			Timestamp: time.Now(),
			FilePath:  *file,
			Digest:    digest,
			Algorithm: *algorithm,
		}
		if err := intlog.Append(ctx, entry); err != nil {
			log.Fatalf("append integrity log: %v", err)
		}
		fmt.Printf("recorded in %s\n", *logPath)
	}
}
