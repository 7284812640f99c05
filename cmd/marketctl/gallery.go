package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newGalleryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Медиа-галерея в S3",
	}

	var (
		folder string
		token  string
		limit  int32
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Список файлов папки",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gallery, err := a.gallery(cmd)
			if err != nil {
				return err
			}
			page, err := gallery.List(cmd.Context(), folder, token, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		},
	}
	listCmd.Flags().StringVar(&folder, "folder", "", "папка")
	listCmd.Flags().StringVar(&token, "token", "", "токен следующей страницы")
	listCmd.Flags().Int32Var(&limit, "limit", 50, "размер страницы")

	var uploadFolder string
	uploadCmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Загрузить изображение",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gallery, err := a.gallery(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return err
			}
			contentType, err := detectContentType(f)
			if err != nil {
				return err
			}

			obj, err := gallery.Upload(cmd.Context(), uploadFolder, filepath.Base(args[0]), contentType, info.Size(), f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), obj)
		},
	}
	uploadCmd.Flags().StringVar(&uploadFolder, "folder", "", "папка назначения")

	deleteCmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Удалить объект",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gallery, err := a.gallery(cmd)
			if err != nil {
				return err
			}
			if err := gallery.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "удален %s\n", args[0])
			return nil
		},
	}

	presignCmd := &cobra.Command{
		Use:   "presign <key>",
		Short: "Подписанная ссылка на объект",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gallery, err := a.gallery(cmd)
			if err != nil {
				return err
			}
			u, err := gallery.Presign(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	cmd.AddCommand(listCmd, uploadCmd, deleteCmd, presignCmd)
	return cmd
}

// detectContentType по расширению, иначе по первым байтам файла
func detectContentType(f *os.File) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(f.Name())); ct != "" {
		return ct, nil
	}
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
