package sqlinline

const QInsertProgressEvent = `--sql d00efe9f-c4a8-42e7-8ec1-3e967e430a49
insert into progress_events(
  id,
  user_id,
  quiz_id,
  subject,
  class_level,
  score,
  max_score,
  percentage,
  passed,
  result,
  created_at
) values (
  $1::uuid,
  $2::text,
  $3::text,
  $4::text,
  $5::int,
  $6::int,
  $7::int,
  $8::double precision,
  $9::boolean,
  $10::jsonb,
  $11::timestamptz
);
`

const QListProgressByUser = `--sql 68a4a768-d96b-47aa-811d-65d7cea61b67
select id::text, user_id, quiz_id, subject, class_level, result, created_at
from progress_events
where user_id = $1::text
order by created_at desc
limit $2::int;
`
