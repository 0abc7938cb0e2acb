package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"

	"github.com/novelbind/novelbind/pkg/epub"
	"github.com/novelbind/novelbind/pkg/fileutils"
	"github.com/novelbind/novelbind/pkg/mediafile"
	"github.com/novelbind/novelbind/pkg/novel"
	"github.com/novelbind/novelbind/pkg/version"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:    "novelbind",
		Usage:   "assemble and inspect web novel epubs",
		Version: version.Version,
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "print the embedded metadata of an epub",
				ArgsUsage: "<file.epub>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: novelbind info <file.epub>", 1)
					}
					pkg, err := epub.Load(c.Args().First())
					if err != nil {
						return err
					}

					n := pkg.Novel
					fmt.Printf("Title:      %s\n", n.Title)
					if n.Author != nil {
						fmt.Printf("Author:     %s\n", n.Author.Name)
					}
					if n.Translator != nil {
						fmt.Printf("Translator: %s\n", n.Translator.Name)
					}
					fmt.Printf("URL:        %s\n", n.URL)
					fmt.Printf("Status:     %s\n", n.Status)
					if len(n.Genres) > 0 {
						fmt.Printf("Genres:     %s\n", strings.Join(n.Genres, ", "))
					}
					fmt.Printf("UID:        %s\n", pkg.UID())
					fmt.Printf("Version:    epub %s\n", pkg.Options.Version)
					fmt.Printf("Files:      %d\n", len(pkg.Files()))
					return nil
				},
			},
			{
				Name:      "rebuild",
				Usage:     "regenerate an epub from its embedded metadata",
				ArgsUsage: "<file.epub>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write to this path instead of a new file next to the input",
					},
					&cli.StringFlag{
						Name:  "epub-version",
						Usage: "target epub version (2.0 or 3.0)",
					},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: novelbind rebuild <file.epub>", 1)
					}
					input := c.Args().First()
					pkg, err := epub.Load(input)
					if err != nil {
						return err
					}
					if v := c.String("epub-version"); v != "" {
						pkg.Options.Version = v
					}

					output := c.String("output")
					if output == "" {
						dir := filepath.Dir(input)
						output = fileutils.UniqueFilepath(
							filepath.Join(dir, fileutils.EpubFilename(pkg.Novel.Title)))
					}
					if err := pkg.WriteFile(output); err != nil {
						return err
					}
					log.Info("rebuilt epub", logger.Data{"input": input, "output": output})
					return nil
				},
			},
			{
				Name:      "set-cover",
				Usage:     "set the cover image of an epub from a local image file",
				ArgsUsage: "<file.epub> <image>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: novelbind set-cover <file.epub> <image>", 1)
					}
					input := c.Args().Get(0)
					imagePath := c.Args().Get(1)

					data, err := os.ReadFile(imagePath)
					if err != nil {
						return err
					}
					mediaType := mediafile.DetectImageType(data)
					if mediaType == "" {
						return cli.Exit(fmt.Sprintf("unrecognized image format: %s", imagePath), 1)
					}

					pkg, err := epub.Load(input)
					if err != nil {
						return err
					}
					id, err := pkg.AddImage(novel.Image{
						URL:       "file://" + imagePath,
						Data:      data,
						MediaType: mediaType,
					}, true)
					if err != nil {
						return err
					}
					if err := pkg.WriteFile(input); err != nil {
						return err
					}
					log.Info("cover updated", logger.Data{
						"path":       input,
						"image_id":   id,
						"media_type": mediaType,
					})
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("novelbind error")
	}
}
