package contactops_test

import (
	"context"
	"fmt"
	"os"

	"github.com/spachava753/cardsync/assets"
	"github.com/spachava753/cardsync/card"
	"github.com/spachava753/cardsync/config"
	"github.com/spachava753/cardsync/contactops"
	"github.com/spachava753/cardsync/store"
)

func composeImportFile(ctx context.Context, path string) ([]int64, error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(ctx, cfg.StorePath, logger)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	docs, err := card.DecodeAll(f)
	if err != nil {
		return nil, err
	}

	fetcher := assets.NewFetcher(cfg.FetcherConfig(), logger)
	conv := contactops.NewConverter(logger, cfg.ConverterOptions(fetcher)...)

	ids := make([]int64, 0, len(docs))
	for _, doc := range docs {
		res, err := conv.InsertContact(ctx, s, cfg.Account(), doc)
		if err != nil {
			return ids, err
		}
		ids = append(ids, res.RawContactID)
	}
	return ids, nil
}

func composeRefreshContact(ctx context.Context, conv *contactops.Converter, s *store.Store, doc *card.Document, id int64) error {
	res, err := conv.UpdateContact(ctx, s, doc, id)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("raw contact %d has none of the updated kinds", id)
	}
	return nil
}

func composePreviewBatch(ctx context.Context, conv *contactops.Converter, doc *card.Document) {
	ops, err := conv.BuildInsert(ctx, contactops.Account{Name: "preview"}, doc)
	if err != nil {
		return
	}
	for _, op := range ops {
		kind, _ := op.Values.String(contactops.ColumnMimeType)
		fmt.Println(op.Type, op.Table, kind, op.Values.Len())
	}
}
