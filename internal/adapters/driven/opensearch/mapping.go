package opensearch

// highlightMaxOffset raises the highlighting analysis limit well past
// the 1 MB default. Without this, a highlight request against a large
// document fails outright; the query planner additionally defends with
// a reduced-scope retry for documents beyond even this limit.
const highlightMaxOffset = 10_000_000

// indexMapping is the index creation contract.
//
// tags and keywords are keyword (exact-match, never tokenized) so they
// support aggregation and filtering; content and summary are analyzed
// text so they support fuzzy full-text relevance. filename and
// file_path get both treatments via a keyword sub-field.
const indexMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "highlight.max_analyzed_offset": 10000000,
    "analysis": {
      "analyzer": {
        "document_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "asciifolding", "stop", "snowball"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "filename": {
        "type": "text",
        "fields": {"keyword": {"type": "keyword"}}
      },
      "extension": {"type": "keyword"},
      "type": {"type": "keyword"},
      "content": {"type": "text", "analyzer": "document_analyzer"},
      "summary": {"type": "text", "analyzer": "document_analyzer"},
      "keywords": {"type": "keyword"},
      "tags": {"type": "keyword"},
      "metadata": {"type": "object", "enabled": true},
      "indexed_at": {"type": "date"},
      "file_size": {"type": "long"},
      "file_path": {
        "type": "text",
        "fields": {"keyword": {"type": "keyword"}}
      },
      "is_attachment": {"type": "boolean"},
      "parent_document_id": {"type": "keyword"},
      "parent_filename": {
        "type": "text",
        "fields": {"keyword": {"type": "keyword"}}
      }
    }
  }
}`
